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

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `b.id, u.username, u.role, b.day, b.month, b.year,
	b.start_slot, b.end_slot, r.id, r.name, b.notes`

// scanBooking reads one booking row produced by a query selecting
// bookingColumns with LEFT JOINs on users and resources. Dangling owner or
// resource references surface as ErrCorruptData rather than a silent drop.
func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		b              model.Booking
		owner, role    *string
		resID, resName *string
	)
	err := row.Scan(&b.ID, &owner, &role, &b.Day, &b.Month, &b.Year,
		&b.Start, &b.End, &resID, &resName, &b.Notes)
	if err != nil {
		return nil, err
	}
	if owner == nil || role == nil || resID == nil || resName == nil {
		return nil, fmt.Errorf("booking %s references a missing owner or resource: %w",
			b.ID, ErrCorruptData)
	}
	b.Owner = *owner
	b.OwnerRole = model.Role(*role)
	if !b.OwnerRole.Valid() {
		return nil, fmt.Errorf("booking %s owner has unknown role %q: %w",
			b.ID, *role, ErrCorruptData)
	}
	b.ResourceID = *resID
	b.ResourceName = *resName
	return &b, nil
}

// BookingsForDate returns every booking on the given date, ordered by start
// slot, as a BookingSet ready for conflict checks and calendar projection.
func (r *BookingRepository) BookingsForDate(ctx context.Context, day, month, year int) (*model.BookingSet, error) {
	if !model.ValidDate(day, month, year) {
		return nil, fmt.Errorf("bookings for date: %02d/%02d/%04d is not a valid date", day, month, year)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b
		 LEFT JOIN users u ON b.owner_id = u.id
		 LEFT JOIN resources r ON b.resource_id = r.id
		 WHERE b.day = $1 AND b.month = $2 AND b.year = $3
		 ORDER BY b.start_slot ASC`,
		day, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings for date: %w", err)
	}
	defer rows.Close()

	set := model.NewBookingSet()
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		set.Add(b)
	}
	return set, rows.Err()
}

// GetByID returns a single booking or ErrNotFound. The id must be a valid
// UUID; a malformed id is a caller bug and reported as such.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get booking: invalid id %q: %w", id, err)
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b
		 LEFT JOIN users u ON b.owner_id = u.id
		 LEFT JOIN resources r ON b.resource_id = r.id
		 WHERE b.id = $1`,
		id,
	)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if errors.Is(err, ErrCorruptData) {
			return nil, err
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// Insert persists a new booking and increments the owner's created-bookings
// counter inside one transaction: either both writes commit or neither does.
//
// The overlap check happens earlier, in the validator, against a plain read
// of the date's bookings. Nothing here re-checks or locks, so two requests
// racing through validation can both insert overlapping bookings. Known gap,
// documented in DESIGN.md.
func (r *BookingRepository) Insert(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var ownerID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM users WHERE username = $1`, b.Owner,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("resolve booking owner: %w", err)
	}

	b.ID = uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, owner_id, resource_id, day, month, year, start_slot, end_slot, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, ownerID, b.ResourceID, b.Day, b.Month, b.Year, b.Start, b.End, b.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET created_events = created_events + 1 WHERE id = $1`,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("increment created_events: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Update rewrites an existing booking's date, interval, resource and notes.
// Identity and ownership never change on edit.
func (r *BookingRepository) Update(ctx context.Context, b *model.Booking) error {
	if _, err := uuid.Parse(b.ID); err != nil {
		return fmt.Errorf("update booking: invalid id %q: %w", b.ID, err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE bookings
		 SET resource_id = $1, day = $2, month = $3, year = $4,
		     start_slot = $5, end_slot = $6, notes = $7
		 WHERE id = $8`,
		b.ResourceID, b.Day, b.Month, b.Year, b.Start, b.End, b.Notes, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpcomingByOwner returns the owner's bookings on or after the given date,
// in chronological order. Used by the home page.
func (r *BookingRepository) UpcomingByOwner(ctx context.Context, username string, day, month, year int) ([]*model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b
		 LEFT JOIN users u ON b.owner_id = u.id
		 LEFT JOIN resources r ON b.resource_id = r.id
		 WHERE u.username = $1
		   AND b.year * 10000 + b.month * 100 + b.day >= $2
		 ORDER BY b.year, b.month, b.day, b.start_slot`,
		username, model.DateValue(day, month, year),
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}
	defer rows.Close()

	var out []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
