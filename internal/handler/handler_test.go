package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"roombook/internal/config"
	"roombook/internal/model"
	"roombook/internal/repository"
	"roombook/internal/service"
)

type stubBookingStore struct {
	bookings map[string]*model.Booking
}

func (s *stubBookingStore) BookingsForDate(_ context.Context, day, month, year int) (*model.BookingSet, error) {
	set := model.NewBookingSet()
	for _, b := range s.bookings {
		if b.Day == day && b.Month == month && b.Year == year {
			set.Add(b)
		}
	}
	return set, nil
}

func (s *stubBookingStore) GetByID(_ context.Context, id string) (*model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (s *stubBookingStore) Insert(_ context.Context, b *model.Booking) error {
	b.ID = "11111111-1111-1111-1111-111111111111"
	s.bookings[b.ID] = b
	return nil
}

func (s *stubBookingStore) Update(_ context.Context, b *model.Booking) error {
	s.bookings[b.ID] = b
	return nil
}

func (s *stubBookingStore) UpcomingByOwner(_ context.Context, username string, day, month, year int) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.Owner == username {
			out = append(out, b)
		}
	}
	return out, nil
}

type stubResourceStore struct {
	resources []model.Resource
}

func (s *stubResourceStore) Exists(_ context.Context, id string) (bool, error) {
	for _, r := range s.resources {
		if r.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubResourceStore) List(_ context.Context) ([]model.Resource, error) {
	return s.resources, nil
}

func (s *stubResourceStore) ApplyChanges(_ context.Context, add []string, del []string, rename []model.Resource) error {
	for _, name := range add {
		s.resources = append(s.resources, model.Resource{ID: "22222222-2222-2222-2222-222222222222", Name: name})
	}
	return nil
}

type stubUserStore struct {
	users map[string]*model.User
}

func (s *stubUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

const resourceID = "33333333-3333-3333-3333-333333333333"

// testServer wires real services over in-memory stores behind the same
// routes cmd/main.go registers.
func testServer(t *testing.T) (*httptest.Server, *stubBookingStore) {
	t.Helper()

	cfg := config.Config{Port: "0", BeginHour: 7, EndHour: 22, NotesLen: 255, MaxResourceNameLen: 45}
	bookings := &stubBookingStore{bookings: make(map[string]*model.Booking)}
	resources := &stubResourceStore{resources: []model.Resource{{ID: resourceID, Name: "Room A"}}}
	users := &stubUserStore{users: map[string]*model.User{
		"alice": {Username: "alice", Role: model.RoleUser},
		"root":  {Username: "root", Role: model.RoleAdmin},
	}}

	h := New(service.NewBookingService(bookings, resources, cfg),
		service.NewResourceService(resources, cfg), users, cfg)
	h.now = func() time.Time {
		return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	}

	r := chi.NewRouter()
	r.Get("/health", HealthCheck)
	r.Group(func(r chi.Router) {
		r.Use(h.WithUser)
		r.Get("/", h.Home)
		r.Get("/calendar", h.Calendar)
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/new", h.NewBookingForm)
			r.Post("/", h.CreateBooking)
			r.Get("/{id}", h.ShowBooking)
			r.Get("/{id}/edit", h.EditBookingForm)
			r.Post("/{id}", h.UpdateBooking)
		})
		r.Route("/resources", func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/", h.Resources)
			r.Post("/", h.UpdateResources)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, bookings
}

func doRequest(t *testing.T, method, rawURL, user string, form url.Values) *http.Response {
	t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequest(method, rawURL, body)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if user != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: user})
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, rawURL, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestHealthCheck(t *testing.T) {
	srv, _ := testServer(t)
	resp := doRequest(t, http.MethodGet, srv.URL+"/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPagesRequireSession(t *testing.T) {
	srv, _ := testServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/calendar", "", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("without cookie: status = %d, want 403", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/calendar", "nobody", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("unknown user: status = %d, want 403", resp.StatusCode)
	}
}

func TestCalendarRenders(t *testing.T) {
	srv, _ := testServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/calendar?day=15&month=3&year=2026", "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Room A") {
		t.Error("calendar should list the resource columns")
	}
	if !strings.Contains(body, "15 March 2026") {
		t.Error("calendar should show the requested date")
	}
}

func TestCalendarRejectsImpossibleDate(t *testing.T) {
	srv, _ := testServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/calendar?day=31&month=2&year=2026", "alice", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateBookingRedirectsToCalendar(t *testing.T) {
	srv, store := testServer(t)

	form := url.Values{
		"date":     {"15/03/2026"},
		"resource": {resourceID},
		"start":    {"14"},
		"end":      {"16"},
		"notes":    {"standup"},
	}
	resp := doRequest(t, http.MethodPost, srv.URL+"/bookings", "alice", form)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/calendar?day=15&month=3&year=2026" {
		t.Errorf("Location = %q", loc)
	}
	if len(store.bookings) != 1 {
		t.Errorf("stored %d bookings, want 1", len(store.bookings))
	}
}

func TestCreateBookingEchoesFieldErrors(t *testing.T) {
	srv, store := testServer(t)

	form := url.Values{
		"date":     {"31/02/2026"},
		"resource": {resourceID},
		"start":    {"14"},
		"end":      {"16"},
	}
	resp := doRequest(t, http.MethodPost, srv.URL+"/bookings", "alice", form)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "The date seems invalid") {
		t.Error("form should carry the date error message")
	}
	if !strings.Contains(body, `value="31/02/2026"`) {
		t.Error("form should echo the submitted date back")
	}
	if len(store.bookings) != 0 {
		t.Error("invalid submission must not be stored")
	}
}

func TestEditForbiddenForStrangers(t *testing.T) {
	srv, store := testServer(t)
	store.bookings["44444444-4444-4444-4444-444444444444"] = &model.Booking{
		ID: "44444444-4444-4444-4444-444444444444", Owner: "root", OwnerRole: model.RoleAdmin,
		Day: 15, Month: 3, Year: 2026, Start: 20, End: 24,
		ResourceID: resourceID, ResourceName: "Room A",
	}

	resp := doRequest(t, http.MethodGet, srv.URL+"/bookings/44444444-4444-4444-4444-444444444444/edit", "alice", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestShowBookingRejectsMalformedID(t *testing.T) {
	srv, _ := testServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/bookings/not-a-uuid", "alice", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResourcesAdminOnly(t *testing.T) {
	srv, _ := testServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/resources/", "alice", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("plain user: status = %d, want 403", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/resources/", "root", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", resp.StatusCode)
	}
}
