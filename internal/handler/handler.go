// Package handler contains the chi HTTP handlers that render the
// server-side HTML pages and translate form submissions into service calls.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"roombook/internal/config"
	"roombook/internal/model"
	"roombook/internal/repository"
	"roombook/internal/service"
)

// UserStore resolves the current user from the session cookie.
// *repository.UserRepository implements it.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// Handler holds all HTTP handlers for the booking application.
type Handler struct {
	bookings  *service.BookingService
	resources *service.ResourceService
	users     UserStore
	cfg       config.Config

	// now is injected so tests can pin the current instant.
	now func() time.Time
}

// New constructs a Handler.
func New(bookings *service.BookingService, resources *service.ResourceService,
	users UserStore, cfg config.Config) *Handler {
	return &Handler{
		bookings:  bookings,
		resources: resources,
		users:     users,
		cfg:       cfg,
		now:       time.Now,
	}
}

// render writes an HTML page assembled from the layout and the named page
// template.
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := pageTemplates[page]
	if !ok {
		log.Printf("render: unknown page %q", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("render %s: %v", page, err)
	}
}

// errorPage is the data for the error template.
type errorPage struct {
	User    *model.User
	Status  int
	Message string
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.render(w, status, "error", errorPage{
		User:    CurrentUser(r),
		Status:  status,
		Message: msg,
	})
}

// fail maps a service or repository error to the right error page.
// Corrupt data is called out separately from plain storage failures: it
// signals a broken invariant an operator has to look at.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.renderError(w, r, http.StatusBadRequest, "Invalid request.")
	case errors.Is(err, repository.ErrNotFound):
		h.renderError(w, r, http.StatusNotFound, "The requested page or record does not exist.")
	case errors.Is(err, service.ErrForbidden):
		h.renderError(w, r, http.StatusForbidden, "You are not allowed to do that.")
	case errors.Is(err, repository.ErrCorruptData):
		log.Printf("data corruption: %v", err)
		h.renderError(w, r, http.StatusInternalServerError, "Stored data is inconsistent; please contact an administrator.")
	default:
		log.Printf("request failed: %v", err)
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong.")
	}
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
