// Package repository implements all database queries for the booking system.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrCorruptData is returned when the database contents break an invariant,
// such as a booking referencing a resource or owner that no longer resolves,
// or a stored role value outside the known enumeration. It is distinct from
// ordinary query failures: retrying will not help.
var ErrCorruptData = errors.New("inconsistent data in database")
