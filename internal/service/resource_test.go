package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"roombook/internal/model"
)

type fakeResourceAdminStore struct {
	applied int
	add     []string
	del     []string
	rename  []model.Resource
}

func (f *fakeResourceAdminStore) List(_ context.Context) ([]model.Resource, error) {
	return nil, nil
}

func (f *fakeResourceAdminStore) ApplyChanges(_ context.Context, add []string, del []string, rename []model.Resource) error {
	f.applied++
	f.add, f.del, f.rename = add, del, rename
	return nil
}

const validID = "5f6f2a3e-8f4c-4bba-9a51-0d1f8a9a2e11"

func TestApplyNormalizesNames(t *testing.T) {
	store := &fakeResourceAdminStore{}
	svc := NewResourceService(store, testCfg)

	err := svc.Apply(context.Background(), []string{
		"  Meeting   Room \t B ",
		"   ",
		strings.Repeat("long name ", 10),
	}, nil, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(store.add) != 2 {
		t.Fatalf("added %d names, want 2 (blank dropped)", len(store.add))
	}
	if store.add[0] != "Meeting Room B" {
		t.Errorf("normalized name = %q", store.add[0])
	}
	if len([]rune(store.add[1])) != testCfg.MaxResourceNameLen {
		t.Errorf("overlong name kept %d runes, want %d", len([]rune(store.add[1])), testCfg.MaxResourceNameLen)
	}
}

func TestApplyRejectsMalformedIDs(t *testing.T) {
	store := &fakeResourceAdminStore{}
	svc := NewResourceService(store, testCfg)

	if err := svc.Apply(context.Background(), nil, []string{"not-a-uuid"}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("delete with bad id = %v, want ErrInvalidInput", err)
	}
	if err := svc.Apply(context.Background(), nil, nil, map[string]string{"nope": "New Name"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("rename with bad id = %v, want ErrInvalidInput", err)
	}
	if store.applied != 0 {
		t.Error("invalid batches must not reach the store")
	}
}

func TestApplySkipsEmptyBatch(t *testing.T) {
	store := &fakeResourceAdminStore{}
	svc := NewResourceService(store, testCfg)

	// Blank adds and blank renames leave nothing to do.
	err := svc.Apply(context.Background(), []string{"", "   "}, nil, map[string]string{validID: "  "})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if store.applied != 0 {
		t.Errorf("empty batch reached the store %d times", store.applied)
	}
}

func TestApplyPassesRenamesThrough(t *testing.T) {
	store := &fakeResourceAdminStore{}
	svc := NewResourceService(store, testCfg)

	err := svc.Apply(context.Background(), nil, nil, map[string]string{validID: "  Lab   Bench "})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if store.applied != 1 || len(store.rename) != 1 {
		t.Fatalf("applied=%d renames=%d, want one rename", store.applied, len(store.rename))
	}
	if store.rename[0].ID != validID || store.rename[0].Name != "Lab Bench" {
		t.Errorf("rename = %+v", store.rename[0])
	}
}
