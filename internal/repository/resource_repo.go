package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roombook/internal/model"
)

// ResourceRepository handles persistence for bookable resources.
type ResourceRepository struct {
	db *pgxpool.Pool
}

// NewResourceRepository constructs a ResourceRepository.
func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// Exists reports whether a resource with the given id is present.
func (r *ResourceRepository) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	var found bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM resources WHERE id = $1)`, id,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("resource exists: %w", err)
	}
	return found, nil
}

// GetByID returns a single resource or ErrNotFound.
func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get resource: invalid id %q: %w", id, err)
	}
	var res model.Resource
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM resources WHERE id = $1`, id,
	).Scan(&res.ID, &res.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return &res, nil
}

// List returns all resources in alphabetical order by name.
func (r *ResourceRepository) List(ctx context.Context) ([]model.Resource, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name FROM resources ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.Name); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

// ApplyChanges runs an administrator's resource edits in one transaction:
// additions, deletions and renames all commit together or not at all.
// Deleting a resource cascades to its bookings. Names clashing with an
// existing resource are ignored rather than failing the whole batch.
func (r *ResourceRepository) ApplyChanges(ctx context.Context, add []string, del []string, rename []model.Resource) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, name := range add {
		_, err = tx.Exec(ctx,
			`INSERT INTO resources (id, name) VALUES ($1, $2)
			 ON CONFLICT (name) DO NOTHING`,
			uuid.New().String(), name,
		)
		if err != nil {
			return fmt.Errorf("add resource %q: %w", name, err)
		}
	}

	for _, id := range del {
		_, err = tx.Exec(ctx, `DELETE FROM bookings WHERE resource_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete bookings of resource %s: %w", id, err)
		}
		_, err = tx.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete resource %s: %w", id, err)
		}
	}

	for _, res := range rename {
		_, err = tx.Exec(ctx,
			`UPDATE resources SET name = $1
			 WHERE id = $2
			   AND NOT EXISTS (SELECT 1 FROM resources WHERE name = $1 AND id <> $2)`,
			res.Name, res.ID,
		)
		if err != nil {
			return fmt.Errorf("rename resource %s: %w", res.ID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
