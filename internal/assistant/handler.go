package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/assistkit/booking-assistant/internal/availability"
	"github.com/assistkit/booking-assistant/internal/booking"
	"github.com/assistkit/booking-assistant/pkg/logging"
)

// Handler exposes the assistant over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("assistant: service is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// PostMessage handles POST /conversations/message.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	result, err := h.svc.ProcessTurn(r.Context(), req)
	if err != nil {
		h.logger.Error("turn processing failed", "error", err)
		http.Error(w, "could not process message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListBookings handles GET /bookings with optional equality filters.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := booking.Filter{
		Service:  q.Get("service"),
		Date:     q.Get("date"),
		Time:     q.Get("time"),
		Location: q.Get("location"),
	}

	records, err := h.svc.ListBookings(r.Context(), filter)
	if err != nil {
		h.logger.Error("list bookings failed", "error", err)
		http.Error(w, "could not list bookings", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []booking.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": records,
		"count":    len(records),
	})
}

// CancelBooking handles POST /bookings/{bookingID}/cancel.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookingID")
	if id == "" {
		http.Error(w, "missing booking id", http.StatusBadRequest)
		return
	}

	ok, err := h.svc.CancelBooking(r.Context(), id)
	if err != nil {
		h.logger.Error("cancel booking failed", "booking_id", id, "error", err)
		http.Error(w, "could not cancel booking", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "cancelled"})
}

// ModifyBookingRequest carries the PATCH /bookings/{bookingID} payload.
type ModifyBookingRequest struct {
	Date *string `json:"date,omitempty"`
	Time *string `json:"time,omitempty"`
}

// ModifyBooking handles PATCH /bookings/{bookingID}.
func (h *Handler) ModifyBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookingID")
	if id == "" {
		http.Error(w, "missing booking id", http.StatusBadRequest)
		return
	}
	var req ModifyBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Date == nil && req.Time == nil {
		http.Error(w, "nothing to modify", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.ModifyBooking(r.Context(), id, req.Date, req.Time)
	switch {
	case errors.Is(err, booking.ErrNotFound):
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	case errors.Is(err, availability.ErrSlotConflict):
		http.Error(w, "requested slot is not available", http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("modify booking failed", "booking_id", id, "error", err)
		http.Error(w, "could not modify booking", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// AdminReset handles POST /admin/reset.
func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetAll(r.Context()); err != nil {
		h.logger.Error("admin reset failed", "error", err)
		http.Error(w, "could not reset bookings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// AdminSeed handles POST /admin/seed.
func (h *Handler) AdminSeed(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SeedDemoData(r.Context()); err != nil {
		h.logger.Error("admin seed failed", "error", err)
		http.Error(w, "could not seed demo bookings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "seeded"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
