package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"roombook/internal/model"
	"roombook/internal/repository"
)

type ctxKey int

const userKey ctxKey = iota

// CurrentUser returns the user attached to the request by WithUser, or nil.
func CurrentUser(r *http.Request) *model.User {
	u, _ := r.Context().Value(userKey).(*model.User)
	return u
}

// sessionCookie names the cookie carrying the current username. Issuing the
// cookie (login) is outside this application; see DESIGN.md.
const sessionCookie = "booking_user"

// WithUser resolves the session cookie into a user account and attaches it
// to the request context. Requests without a resolvable user get a 403 page.
func (h *Handler) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil || c.Value == "" {
			h.renderError(w, r, http.StatusForbidden, "You need to be signed in to use the calendar.")
			return
		}

		u, err := h.users.GetByUsername(r.Context(), c.Value)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				h.renderError(w, r, http.StatusForbidden, "Unknown user.")
				return
			}
			h.fail(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin lets only administrators through to resource management.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := CurrentUser(r)
		if u == nil || !u.IsAdmin() {
			h.renderError(w, r, http.StatusForbidden, "Administrators only.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logger is a minimal structured access log middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %s", r.RemoteAddr, r.Method, r.URL.Path, time.Since(start))
	})
}
