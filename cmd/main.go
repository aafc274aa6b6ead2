// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"roombook/internal/config"
	"roombook/internal/database"
	"roombook/internal/handler"
	"roombook/internal/ratelim"
	"roombook/internal/repository"
	"roombook/internal/service"
)

func main() {
	ctx := context.Background()

	// ── 1. Configuration ──────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on the environment")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ── 2. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("✓ Connected to PostgreSQL")

	// ── 3. Wire up layers ────────────────────────────────────────────────
	bookingRepo := repository.NewBookingRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	bookingSvc := service.NewBookingService(bookingRepo, resourceRepo, cfg)
	resourceSvc := service.NewResourceService(resourceRepo, cfg)
	h := handler.New(bookingSvc, resourceSvc, userRepo, cfg)

	// ── 4. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // access log
	r.Use(ratelim.New(5, 10).Limit)

	// Health
	r.Get("/health", handler.HealthCheck)

	// Application pages – all require a resolvable session user.
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

	// Static assets – stylesheet and images under web/static.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("./web/static"))))

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}
