// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"roombook/internal/config"
	"roombook/internal/model"
)

// ErrForbidden is returned when a user tries to edit a booking they do not
// own without administrator capabilities.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidInput marks caller mistakes such as malformed ids, as opposed to
// user input that merely fails field validation.
var ErrInvalidInput = errors.New("invalid input")

// BookingStore is the persistence capability the booking service depends on.
// *repository.BookingRepository implements it; tests supply fakes.
type BookingStore interface {
	BookingsForDate(ctx context.Context, day, month, year int) (*model.BookingSet, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Insert(ctx context.Context, b *model.Booking) error
	Update(ctx context.Context, b *model.Booking) error
	UpcomingByOwner(ctx context.Context, username string, day, month, year int) ([]*model.Booking, error)
}

// ResourceStore is the resource lookup capability used during validation
// and calendar projection.
type ResourceStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]model.Resource, error)
}

// BookingService validates and persists bookings and projects the calendar.
type BookingService struct {
	bookings  BookingStore
	resources ResourceStore

	beginHour int
	endHour   int
	notesLen  int
}

// NewBookingService constructs a BookingService with its dependencies.
func NewBookingService(bookings BookingStore, resources ResourceStore, cfg config.Config) *BookingService {
	return &BookingService{
		bookings:  bookings,
		resources: resources,
		beginHour: cfg.BeginHour,
		endHour:   cfg.EndHour,
		notesLen:  cfg.NotesLen,
	}
}

// BookingInput carries the raw form values of a booking creation or edit.
type BookingInput struct {
	Date     string // "dd/mm/yyyy"
	Resource string // resource id
	Start    string // half-hour slot, numeric
	End      string // half-hour slot, numeric
	Notes    string
}

// ValidationResult holds the outcome of validating a BookingInput: one error
// message per field (empty when the field is fine) plus the parsed values.
type ValidationResult struct {
	WrongDate     string
	WrongResource string
	WrongStart    string
	WrongEnd      string

	Day        int
	Month      int
	Year       int
	ResourceID string
	Start      int
	End        int
	Notes      string

	AllValid bool
}

// Field error messages shown next to the booking form inputs.
const (
	msgDateRequired     = "Date required"
	msgDateInvalid      = "The date seems invalid"
	msgDatePast         = "The date is past"
	msgResourceRequired = "Resource required"
	msgResourceMissing  = "The requested resource does not exist"
	msgStartInvalid     = "Invalid start hour"
	msgStartPast        = "The start hour is past"
	msgEndInvalid       = "Invalid end hour"
	msgEndBeforeStart   = "Must be later than the start hour"
	msgEndPast          = "The end hour is past"
	msgOverlap          = "The selected time interval overlaps with another event."
)

// Overlaps reports whether the half-open slot intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Two bookings on the same resource and date may
// coexist only when this returns false.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return !(aEnd <= bStart || aStart >= bEnd)
}

// Validate checks a proposed booking against the business rules and the
// existing bookings. Every field is checked independently and all applicable
// errors are reported together; only the overlap check requires date,
// resource, start and end to be individually valid first.
//
// selfID excludes the booking being edited from the conflict scan; pass ""
// when validating a new booking. now supplies the current instant for the
// past-date and past-hour checks.
//
// The returned error covers storage failures only; bad input never produces
// an error, it produces field messages.
func (s *BookingService) Validate(ctx context.Context, in BookingInput, selfID string, now time.Time) (*ValidationResult, error) {
	res := &ValidationResult{}

	today := model.DateValue(now.Day(), int(now.Month()), now.Year())
	clock := model.ClockValue(now.Hour(), now.Minute())
	dateOK := false

	// Date: dd/mm/yyyy, a real calendar date, not in the past. Past-ness is
	// a plain magnitude comparison of yyyymmdd values.
	if in.Date == "" {
		res.WrongDate = msgDateRequired
	} else {
		day, month, year, ok := parseDate(in.Date)
		if !ok {
			res.WrongDate = msgDateInvalid
		} else if model.DateValue(day, month, year) < today {
			res.WrongDate = msgDatePast
		} else {
			res.Day, res.Month, res.Year = day, month, year
			dateOK = true
		}
	}

	// Resource: required and must currently exist.
	if in.Resource == "" {
		res.WrongResource = msgResourceRequired
	} else {
		found, err := s.resources.Exists(ctx, in.Resource)
		if err != nil {
			return nil, fmt.Errorf("validate resource: %w", err)
		}
		if !found {
			res.WrongResource = msgResourceMissing
		} else {
			res.ResourceID = in.Resource
		}
	}

	// Start: numeric, inside the operating window, and not already past
	// when the booking is for today. Clock times compare as HHmm magnitudes.
	start, startErr := strconv.Atoi(in.Start)
	startOK := startErr == nil && model.ValidStartSlot(start, s.beginHour, s.endHour)
	if !startOK {
		res.WrongStart = msgStartInvalid
	} else {
		res.Start = start
		if dateOK && model.DateValue(res.Day, res.Month, res.Year) == today {
			h, m := model.SlotClock(start)
			if model.ClockValue(h, m) <= clock {
				res.WrongStart = msgStartPast
			}
		}
	}

	// End: numeric, strictly after start, inside the window, not past.
	// An end at or before the start is reported as such even when the slot
	// also falls outside the window.
	end, endErr := strconv.Atoi(in.End)
	switch {
	case endErr != nil:
		res.WrongEnd = msgEndInvalid
	case startErr == nil && end <= start:
		res.WrongEnd = msgEndBeforeStart
	case !model.ValidEndSlot(end, s.beginHour, s.endHour):
		res.WrongEnd = msgEndInvalid
	default:
		res.End = end
		if dateOK && model.DateValue(res.Day, res.Month, res.Year) == today {
			h, m := model.SlotClock(end)
			if model.ClockValue(h, m) <= clock {
				res.WrongEnd = msgEndPast
			}
		}
	}

	// Overlap: only meaningful once date, resource, start and end are each
	// valid on their own. A linear scan over the date's bookings is plenty
	// at this scale.
	if res.WrongDate == "" && res.WrongResource == "" && res.WrongStart == "" && res.WrongEnd == "" {
		set, err := s.bookings.BookingsForDate(ctx, res.Day, res.Month, res.Year)
		if err != nil {
			return nil, fmt.Errorf("validate overlap: %w", err)
		}
		for _, e := range set.All() {
			if e.ResourceID != res.ResourceID {
				continue
			}
			if selfID != "" && e.ID == selfID {
				continue
			}
			if Overlaps(res.Start, res.End, e.Start, e.End) {
				res.WrongStart = msgOverlap
				res.WrongEnd = msgOverlap
				break
			}
		}
	}

	// Notes: optional free text, truncated to the configured cap.
	if in.Notes != "" {
		runes := []rune(in.Notes)
		if len(runes) > s.notesLen-1 {
			runes = runes[:s.notesLen-1]
		}
		res.Notes = string(runes)
	}

	res.AllValid = res.WrongDate == "" && res.WrongResource == "" &&
		res.WrongStart == "" && res.WrongEnd == ""
	return res, nil
}

// parseDate splits a dd/mm/yyyy string into its numeric components and
// verifies they form a real calendar date.
func parseDate(date string) (day, month, year int, ok bool) {
	fields := strings.Split(date, "/")
	if len(fields) != 3 {
		return 0, 0, 0, false
	}
	var errs [3]error
	day, errs[0] = strconv.Atoi(fields[0])
	month, errs[1] = strconv.Atoi(fields[1])
	year, errs[2] = strconv.Atoi(fields[2])
	if errs[0] != nil || errs[1] != nil || errs[2] != nil {
		return 0, 0, 0, false
	}
	if !model.ValidDate(day, month, year) {
		return 0, 0, 0, false
	}
	return day, month, year, true
}

// Create validates the input and, when everything checks out, inserts the
// booking on behalf of owner. The validation result is returned in both
// cases so the form can be re-rendered with per-field messages.
func (s *BookingService) Create(ctx context.Context, owner *model.User, in BookingInput, now time.Time) (*model.Booking, *ValidationResult, error) {
	v, err := s.Validate(ctx, in, "", now)
	if err != nil {
		return nil, nil, err
	}
	if !v.AllValid {
		return nil, v, nil
	}

	b, err := model.NewBooking("", owner.Username, owner.Role,
		v.Day, v.Month, v.Year, v.Start, v.End, v.ResourceID, "", v.Notes)
	if err != nil {
		return nil, nil, err
	}
	if err := s.bookings.Insert(ctx, b); err != nil {
		return nil, nil, fmt.Errorf("create booking: %w", err)
	}
	return b, v, nil
}

// Edit validates the input and rewrites the identified booking, excluding it
// from its own conflict check. Only the owner or an administrator may edit;
// identity and ownership are preserved.
func (s *BookingService) Edit(ctx context.Context, id string, editor *model.User, in BookingInput, now time.Time) (*model.Booking, *ValidationResult, error) {
	existing, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if existing.Owner != editor.Username && !editor.IsAdmin() {
		return nil, nil, ErrForbidden
	}

	v, err := s.Validate(ctx, in, id, now)
	if err != nil {
		return nil, nil, err
	}
	if !v.AllValid {
		return nil, v, nil
	}

	b, err := model.NewBooking(id, existing.Owner, existing.OwnerRole,
		v.Day, v.Month, v.Year, v.Start, v.End, v.ResourceID, "", v.Notes)
	if err != nil {
		return nil, nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, nil, fmt.Errorf("edit booking: %w", err)
	}
	return b, v, nil
}

// Get returns a single booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// Upcoming lists the user's bookings from today onwards, for the home page.
func (s *BookingService) Upcoming(ctx context.Context, username string, now time.Time) ([]*model.Booking, error) {
	return s.bookings.UpcomingByOwner(ctx, username, now.Day(), int(now.Month()), now.Year())
}
