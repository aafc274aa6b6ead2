package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"roombook/internal/model"
	"roombook/internal/service"
)

// homePage is the data for the home template.
type homePage struct {
	User     *model.User
	Bookings []*model.Booking
}

// Home handles GET /
// Shows the current user's upcoming bookings.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	bookings, err := h.bookings.Upcoming(r.Context(), u.Username, h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "home", homePage{User: u, Bookings: bookings})
}

// calendarPage is the data for the calendar template.
type calendarPage struct {
	User      *model.User
	Day       int
	Month     int
	Year      int
	DateParam string // "dd/mm/yyyy", used to prefill the creation form
	DateLabel string
	PrevURL   string
	NextURL   string
	Resources []model.Resource
	Rows      []service.Row
}

// Calendar handles GET /calendar?day=&month=&year=
// Renders the slot grid for one date; defaults to today.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	now := h.now()

	day := queryInt(r, "day", now.Day())
	month := queryInt(r, "month", int(now.Month()))
	year := queryInt(r, "year", now.Year())
	if !model.ValidDate(day, month, year) {
		h.renderError(w, r, http.StatusBadRequest, "The requested date is invalid.")
		return
	}

	resources, rows, err := h.bookings.Calendar(r.Context(), day, month, year, now)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	prev := date.AddDate(0, 0, -1)
	next := date.AddDate(0, 0, 1)

	h.render(w, http.StatusOK, "calendar", calendarPage{
		User:      u,
		Day:       day,
		Month:     month,
		Year:      year,
		DateParam: fmt.Sprintf("%02d/%02d/%04d", day, month, year),
		DateLabel: date.Format("2 January 2006"),
		PrevURL:   calendarURL(prev),
		NextURL:   calendarURL(next),
		Resources: resources,
		Rows:      rows,
	})
}

func calendarURL(t time.Time) string {
	return fmt.Sprintf("/calendar?day=%d&month=%d&year=%d", t.Day(), int(t.Month()), t.Year())
}

// slotOption is one entry of the start/end hour selects.
type slotOption struct {
	Value int
	Label string
}

// bookingFormPage is the data for the creation/edit form template.
type bookingFormPage struct {
	User         *model.User
	Heading      string
	Action       string
	Resources    []model.Resource
	StartOptions []slotOption
	EndOptions   []slotOption
	NotesLen     int

	// Current field values, echoed back on validation failure.
	Date     string
	Resource string
	Start    string
	End      string
	Notes    string

	Errors *service.ValidationResult
}

func (h *Handler) startOptions() []slotOption {
	var opts []slotOption
	for s := h.cfg.BeginHour * 2; s <= h.cfg.EndHour*2+1; s++ {
		opts = append(opts, slotOption{Value: s, Label: model.SlotLabel(s)})
	}
	return opts
}

func (h *Handler) endOptions() []slotOption {
	var opts []slotOption
	for s := h.cfg.BeginHour*2 + 1; s <= (h.cfg.EndHour+1)*2; s++ {
		opts = append(opts, slotOption{Value: s, Label: model.SlotLabel(s)})
	}
	return opts
}

func (h *Handler) newFormPage(u *model.User, resources []model.Resource) bookingFormPage {
	return bookingFormPage{
		User:         u,
		Heading:      "New booking",
		Action:       "/bookings",
		Resources:    resources,
		StartOptions: h.startOptions(),
		EndOptions:   h.endOptions(),
		NotesLen:     h.cfg.NotesLen,
	}
}

// NewBookingForm handles GET /bookings/new
// Renders the creation form, prefilled from the calendar cell that was
// clicked (date, start, end, resource query parameters).
func (h *Handler) NewBookingForm(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	resources, err := h.resources.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page := h.newFormPage(u, resources)
	q := r.URL.Query()
	page.Date = q.Get("date")
	page.Resource = q.Get("resource")
	page.Start = q.Get("start")
	page.End = q.Get("end")
	h.render(w, http.StatusOK, "booking_form", page)
}

func bookingInput(r *http.Request) service.BookingInput {
	return service.BookingInput{
		Date:     r.FormValue("date"),
		Resource: r.FormValue("resource"),
		Start:    r.FormValue("start"),
		End:      r.FormValue("end"),
		Notes:    r.FormValue("notes"),
	}
}

func (page *bookingFormPage) fill(in service.BookingInput, v *service.ValidationResult) {
	page.Date = in.Date
	page.Resource = in.Resource
	page.Start = in.Start
	page.End = in.End
	page.Notes = in.Notes
	page.Errors = v
}

// CreateBooking handles POST /bookings
// Validates the submitted form; on success inserts the booking and redirects
// to the calendar, otherwise re-renders the form with per-field messages.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	in := bookingInput(r)
	b, v, err := h.bookings.Create(r.Context(), u, in, h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !v.AllValid {
		resources, err := h.resources.List(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		page := h.newFormPage(u, resources)
		page.fill(in, v)
		h.render(w, http.StatusUnprocessableEntity, "booking_form", page)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/calendar?day=%d&month=%d&year=%d", b.Day, b.Month, b.Year), http.StatusSeeOther)
}

// bookingPage is the data for the display template.
type bookingPage struct {
	User    *model.User
	Booking *model.Booking
	CanEdit bool
}

// ShowBooking handles GET /bookings/{id}
func (h *Handler) ShowBooking(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid booking id.")
		return
	}

	b, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "booking", bookingPage{
		User:    u,
		Booking: b,
		CanEdit: b.Owner == u.Username || u.IsAdmin(),
	})
}

// EditBookingForm handles GET /bookings/{id}/edit
// Renders the edit form prefilled with the booking's current values.
func (h *Handler) EditBookingForm(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid booking id.")
		return
	}

	b, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if b.Owner != u.Username && !u.IsAdmin() {
		h.renderError(w, r, http.StatusForbidden, "Only the owner may edit this booking.")
		return
	}

	resources, err := h.resources.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page := h.newFormPage(u, resources)
	page.Heading = "Edit booking"
	page.Action = "/bookings/" + id
	page.Date = fmt.Sprintf("%02d/%02d/%04d", b.Day, b.Month, b.Year)
	page.Resource = b.ResourceID
	page.Start = strconv.Itoa(b.Start)
	page.End = strconv.Itoa(b.End)
	page.Notes = b.Notes
	h.render(w, http.StatusOK, "booking_form", page)
}

// UpdateBooking handles POST /bookings/{id}
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid booking id.")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	in := bookingInput(r)
	b, v, err := h.bookings.Edit(r.Context(), id, u, in, h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !v.AllValid {
		resources, err := h.resources.List(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		page := h.newFormPage(u, resources)
		page.Heading = "Edit booking"
		page.Action = "/bookings/" + id
		page.fill(in, v)
		h.render(w, http.StatusUnprocessableEntity, "booking_form", page)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/calendar?day=%d&month=%d&year=%d", b.Day, b.Month, b.Year), http.StatusSeeOther)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
