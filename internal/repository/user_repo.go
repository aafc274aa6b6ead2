package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roombook/internal/model"
)

// UserRepository handles persistence for user accounts.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername returns the account with the given username, or ErrNotFound.
// A stored role outside the known enumeration means the record is broken
// and is reported as ErrCorruptData.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, username, first_name, last_name, email, role, created_events
		 FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &role, &u.CreatedEvents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.Role = model.Role(role)
	if !u.Role.Valid() {
		return nil, fmt.Errorf("user %s has unknown role %q: %w", u.Username, role, ErrCorruptData)
	}
	return &u, nil
}
