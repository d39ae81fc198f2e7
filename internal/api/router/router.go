// Package router assembles the chi router and middleware stack for the
// assistant API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/assistkit/booking-assistant/internal/assistant"
	httpmiddleware "github.com/assistkit/booking-assistant/internal/http/middleware"
	"github.com/assistkit/booking-assistant/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Assistant          *assistant.Handler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests/sec and burst for the conversation endpoint. Zero disables
	// rate limiting.
	MessageRateLimit float64
	MessageBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/conversations", func(conv chi.Router) {
		if cfg.MessageRateLimit > 0 {
			conv.Use(httpmiddleware.RateLimit(cfg.MessageRateLimit, cfg.MessageBurst))
		}
		conv.Post("/message", cfg.Assistant.PostMessage)
	})

	r.Route("/bookings", func(b chi.Router) {
		b.Get("/", cfg.Assistant.ListBookings)
		b.Post("/{bookingID}/cancel", cfg.Assistant.CancelBooking)
		b.Patch("/{bookingID}", cfg.Assistant.ModifyBooking)
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		admin.Post("/reset", cfg.Assistant.AdminReset)
		admin.Post("/seed", cfg.Assistant.AdminSeed)
	})

	return r
}
