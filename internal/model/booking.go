package model

import (
	"fmt"
	"sort"
)

// Booking represents one contiguous reservation of a resource on a calendar
// date. Time is expressed in half-hour slots (see slot.go); the booking
// occupies [Start, End).
type Booking struct {
	ID           string // empty until inserted
	Owner        string // username of the creator
	OwnerRole    Role   // role tag of the creator, shown in the calendar
	Day          int
	Month        int
	Year         int
	Start        int
	End          int
	ResourceID   string
	ResourceName string
	Notes        string
}

// NewBooking constructs a booking, enforcing the interval invariant.
func NewBooking(id, owner string, role Role, day, month, year, start, end int,
	resourceID, resourceName, notes string) (*Booking, error) {
	if end <= start {
		return nil, fmt.Errorf("booking end %d must be greater than start %d", end, start)
	}
	return &Booking{
		ID:           id,
		Owner:        owner,
		OwnerRole:    role,
		Day:          day,
		Month:        month,
		Year:         year,
		Start:        start,
		End:          end,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Notes:        notes,
	}, nil
}

// Length returns the duration of the booking in half-hour slots.
func (b *Booking) Length() int {
	return b.End - b.Start
}

// CompareBookings orders two bookings chronologically: by date, then by
// start slot. Returns <0, 0 or >0 in the usual three-way fashion.
func CompareBookings(a, b *Booking) int {
	if c := cmp(a.Year, b.Year); c != 0 {
		return c
	}
	if c := cmp(a.Month, b.Month); c != 0 {
		return c
	}
	if c := cmp(a.Day, b.Day); c != 0 {
		return c
	}
	return cmp(a.Start, b.Start)
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// BookingSet is an ordered collection of the bookings for one date. It lives
// for the duration of a single request: populated from a date query, consumed
// by the validator and the calendar projector, then discarded.
type BookingSet struct {
	items []*Booking
}

// NewBookingSet returns an empty set.
func NewBookingSet() *BookingSet {
	return &BookingSet{}
}

// Size returns the number of bookings in the set.
func (s *BookingSet) Size() int {
	return len(s.items)
}

// Add appends a booking to the set. Bookings equal by value are rejected,
// so the set never holds duplicates.
func (s *BookingSet) Add(b *Booking) bool {
	if b == nil {
		return false
	}
	for _, e := range s.items {
		if *e == *b {
			return false
		}
	}
	s.items = append(s.items, b)
	return true
}

// All returns the bookings in chronological order.
func (s *BookingSet) All() []*Booking {
	sort.SliceStable(s.items, func(i, j int) bool {
		return CompareBookings(s.items[i], s.items[j]) < 0
	})
	out := make([]*Booking, len(s.items))
	copy(out, s.items)
	return out
}

// ByStart returns the first booking starting exactly at the given slot on
// the given resource, or nil when the cell is free.
func (s *BookingSet) ByStart(slot int, resourceID string) *Booking {
	for _, e := range s.items {
		if e.Start == slot && e.ResourceID == resourceID {
			return e
		}
	}
	return nil
}
