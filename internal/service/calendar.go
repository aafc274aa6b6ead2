package service

import (
	"context"
	"fmt"
	"time"

	"roombook/internal/model"
)

// CellStatus classifies a calendar cell for rendering.
type CellStatus string

const (
	// CellBusy marks a cell where a booking starts; it spans the booking's
	// length in rows.
	CellBusy CellStatus = "busy"
	// CellBookable marks a free cell whose time has not passed yet; clicking
	// it opens the creation form prefilled with the cell's coordinates.
	CellBookable CellStatus = "bookable"
	// CellPast marks a free cell whose time has already gone by.
	CellPast CellStatus = "past"
)

// Cell describes one calendar table cell.
type Cell struct {
	Status     CellStatus
	ResourceID string
	SpanRows   int

	// Busy cells: the booking shown in the cell.
	BookingID string
	Label     string     // owner username
	Kind      model.Role // owner role tag, used for colouring

	// Bookable cells: slot interval to prefill in the creation form.
	Start int
	End   int
}

// Row is one half-hour line of the calendar. Resources covered by the row
// span of an earlier busy cell are absent from Cells; the rendered table
// must not emit anything for them.
type Row struct {
	Hour   int
	Minute int
	Cells  []Cell
}

// ProjectCalendar lays out one date's bookings on a (half-hour row ×
// resource column) grid. Columns follow the order of resources; rows cover
// the operating window with two sub-rows per hour.
//
// A booking starting at a cell produces a busy cell spanning Length() rows,
// and the per-resource skip counter suppresses that column for the following
// Length()-1 rows. Free cells are bookable only when their clock time is
// strictly in the future relative to now, using the same date and clock
// magnitude comparison as the validator.
//
// The projection is pure: given the same inputs it always produces the same
// rows and mutates nothing.
func ProjectCalendar(beginHour, endHour, day, month, year int,
	resources []model.Resource, bookings *model.BookingSet, now time.Time) []Row {

	today := model.DateValue(now.Day(), int(now.Month()), now.Year())
	date := model.DateValue(day, month, year)
	clock := model.ClockValue(now.Hour(), now.Minute())

	skip := make(map[string]int, len(resources))
	var rows []Row

	for hour := beginHour; hour <= endHour; hour++ {
		for _, minute := range [2]int{0, 30} {
			slot := hour * 2
			if minute == 30 {
				slot++
			}

			row := Row{Hour: hour, Minute: minute}
			for _, r := range resources {
				if skip[r.ID] > 0 {
					skip[r.ID]--
					continue
				}

				if b := bookings.ByStart(slot, r.ID); b != nil {
					row.Cells = append(row.Cells, Cell{
						Status:     CellBusy,
						ResourceID: r.ID,
						SpanRows:   b.Length(),
						BookingID:  b.ID,
						Label:      b.Owner,
						Kind:       b.OwnerRole,
					})
					skip[r.ID] = b.Length() - 1
					continue
				}

				cell := Cell{Status: CellPast, ResourceID: r.ID, SpanRows: 1}
				h, m := model.SlotClock(slot)
				if date > today || (date == today && model.ClockValue(h, m) > clock) {
					cell.Status = CellBookable
					cell.Start = slot
					cell.End = slot + 1
				}
				row.Cells = append(row.Cells, cell)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Calendar fetches the resource list and the date's bookings, then projects
// them onto the rendering grid.
func (s *BookingService) Calendar(ctx context.Context, day, month, year int, now time.Time) ([]model.Resource, []Row, error) {
	if !model.ValidDate(day, month, year) {
		return nil, nil, fmt.Errorf("calendar: %02d/%02d/%04d is not a valid date", day, month, year)
	}

	resources, err := s.resources.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("calendar resources: %w", err)
	}
	bookings, err := s.bookings.BookingsForDate(ctx, day, month, year)
	if err != nil {
		return nil, nil, fmt.Errorf("calendar bookings: %w", err)
	}

	rows := ProjectCalendar(s.beginHour, s.endHour, day, month, year, resources, bookings, now)
	return resources, rows, nil
}
