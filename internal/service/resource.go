package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"roombook/internal/config"
	"roombook/internal/model"
)

// ResourceAdminStore is the persistence capability behind resource
// management. *repository.ResourceRepository implements it.
type ResourceAdminStore interface {
	List(ctx context.Context) ([]model.Resource, error)
	ApplyChanges(ctx context.Context, add []string, del []string, rename []model.Resource) error
}

// ResourceService handles the administrator's resource management:
// listing, adding, renaming and deleting bookable resources.
type ResourceService struct {
	resources  ResourceAdminStore
	maxNameLen int
}

// NewResourceService constructs a ResourceService.
func NewResourceService(resources ResourceAdminStore, cfg config.Config) *ResourceService {
	return &ResourceService{resources: resources, maxNameLen: cfg.MaxResourceNameLen}
}

// List returns all resources in alphabetical order.
func (s *ResourceService) List(ctx context.Context) ([]model.Resource, error) {
	return s.resources.List(ctx)
}

// Apply normalizes and applies a batch of resource edits in one transaction.
// Names are trimmed, inner whitespace is collapsed and overlong names are
// cut to the configured cap; blank names are dropped from the batch.
// Deleting a resource also deletes all of its bookings.
func (s *ResourceService) Apply(ctx context.Context, add []string, del []string, rename map[string]string) error {
	var addNames []string
	for _, name := range add {
		if n := s.normalizeName(name); n != "" {
			addNames = append(addNames, n)
		}
	}

	for _, id := range del {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("apply resource changes: id %q: %w", id, ErrInvalidInput)
		}
	}

	var renames []model.Resource
	for id, name := range rename {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("apply resource changes: id %q: %w", id, ErrInvalidInput)
		}
		if n := s.normalizeName(name); n != "" {
			renames = append(renames, model.Resource{ID: id, Name: n})
		}
	}

	if len(addNames) == 0 && len(del) == 0 && len(renames) == 0 {
		return nil
	}
	return s.resources.ApplyChanges(ctx, addNames, del, renames)
}

func (s *ResourceService) normalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	runes := []rune(name)
	if len(runes) > s.maxNameLen {
		runes = runes[:s.maxNameLen]
	}
	return string(runes)
}
