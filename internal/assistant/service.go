// Package assistant orchestrates a conversation turn end to end: extraction,
// explainability, clarification, availability, booking, pricing and receipts.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/assistkit/booking-assistant/internal/availability"
	"github.com/assistkit/booking-assistant/internal/booking"
	"github.com/assistkit/booking-assistant/internal/explain"
	"github.com/assistkit/booking-assistant/internal/extraction"
	"github.com/assistkit/booking-assistant/internal/observability/metrics"
	"github.com/assistkit/booking-assistant/internal/pricing"
	"github.com/assistkit/booking-assistant/internal/receipts"
	"github.com/assistkit/booking-assistant/pkg/logging"
)

// Turn outcomes reported to clients.
const (
	OutcomeClarify             = "clarify"
	OutcomeIncomplete          = "incomplete"
	OutcomeModifyPrompt        = "modify_prompt"
	OutcomeCancelPrompt        = "cancel_prompt"
	OutcomeDelegatedSuggestion = "delegated_suggestion"
	OutcomeUnavailable         = "unavailable"
	OutcomeBooked              = "booked"
	OutcomeAutoBooked          = "auto_booked"
)

const maxExplanationLen = 1000

// TurnRequest is one user message in a conversation. ConfirmDelegated
// confirms a previously suggested delegated booking; AutoBook accepts the
// suggested alternative when the requested slot is taken.
type TurnRequest struct {
	ConversationID   string `json:"conversation_id,omitempty"`
	Message          string `json:"message"`
	ConfirmDelegated bool   `json:"confirm_delegated,omitempty"`
	AutoBook         bool   `json:"auto_book,omitempty"`
}

// StateView is the client-facing projection of the extracted state.
type StateView struct {
	Service              string                       `json:"service,omitempty"`
	Date                 string                       `json:"date,omitempty"`
	Time                 string                       `json:"time,omitempty"`
	Location             string                       `json:"location,omitempty"`
	Intent               string                       `json:"intent"`
	Delegated            bool                         `json:"delegated"`
	ServiceAutoSelected  bool                         `json:"service_auto_selected"`
	LocationAutoSelected bool                         `json:"location_auto_selected"`
	Confidences          map[extraction.Field]float64 `json:"confidences"`
	Ambiguities          []string                     `json:"ambiguities,omitempty"`
	Explanation          string                       `json:"explanation,omitempty"`
}

// BookingView is the confirmed-booking payload, including the priced fields.
type BookingView struct {
	ID                   string  `json:"id"`
	Service              string  `json:"service"`
	Date                 string  `json:"date"`
	Time                 string  `json:"time"`
	Location             string  `json:"location"`
	ConfidencePct        float64 `json:"confidence_pct"`
	Price                float64 `json:"price"`
	DiscountPercent      float64 `json:"discount_percent"`
	Currency             string  `json:"currency"`
	Delegated            bool    `json:"delegated"`
	ServiceAutoSelected  bool    `json:"service_auto_selected"`
	LocationAutoSelected bool    `json:"location_auto_selected"`
	Explanation          string  `json:"explanation,omitempty"`
	Status               string  `json:"status"`
}

// TurnResult is the full response to one processed turn.
type TurnResult struct {
	ConversationID string                   `json:"conversation_id"`
	Outcome        string                   `json:"outcome"`
	Reply          string                   `json:"reply,omitempty"`
	State          StateView                `json:"state"`
	Score          explain.Breakdown        `json:"score"`
	Urgent         bool                     `json:"urgent"`
	Style          string                   `json:"style"`
	Resolution     *availability.Resolution `json:"resolution,omitempty"`
	Booking        *BookingView             `json:"booking,omitempty"`
	Receipt        string                   `json:"receipt,omitempty"`
}

// Service processes conversation turns.
type Service struct {
	extractor *extraction.Extractor
	engine    *availability.Engine
	pricer    *pricing.Engine
	enrichers *receipts.Pipeline
	store     booking.Store
	history   *ConversationStore
	metrics   *metrics.AssistantMetrics
	logger    *logging.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewService wires the turn pipeline. extractor, engine, pricer and store are
// required; metrics and enrichers may be nil.
func NewService(
	extractor *extraction.Extractor,
	engine *availability.Engine,
	pricer *pricing.Engine,
	store booking.Store,
	enrichers *receipts.Pipeline,
	m *metrics.AssistantMetrics,
	logger *logging.Logger,
) *Service {
	if extractor == nil {
		panic("assistant: extractor is required")
	}
	if engine == nil {
		panic("assistant: availability engine is required")
	}
	if pricer == nil {
		panic("assistant: pricing engine is required")
	}
	if store == nil {
		panic("assistant: booking store is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if enrichers == nil {
		enrichers = receipts.NewPipeline(logger)
	}
	return &Service{
		extractor: extractor,
		engine:    engine,
		pricer:    pricer,
		enrichers: enrichers,
		store:     store,
		history:   NewConversationStore(),
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("assistkit.internal.assistant"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the reference clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Conversations exposes the history store for admin reset.
func (s *Service) Conversations() *ConversationStore {
	return s.history
}

// ProcessTurn appends the user message to the conversation, replays the
// history through the extractor and drives the booking flow to one outcome.
func (s *Service) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "assistant.process_turn")
	defer span.End()

	convID := req.ConversationID
	if convID == "" {
		convID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("conversation.id", convID))

	turns := s.history.Append(convID, extraction.Turn{Role: extraction.RoleUser, Content: req.Message})
	state := s.extractor.Extract(ctx, turns, start)
	urgent, style := extraction.DetectSignals(req.Message)
	breakdown := explain.Score(state)
	s.metrics.ObserveScore(breakdown.Score)

	result := &TurnResult{
		ConversationID: convID,
		State:          viewOf(state),
		Score:          breakdown,
		Urgent:         urgent,
		Style:          style,
	}

	err := s.resolveOutcome(ctx, req, convID, turns, state, result)
	s.metrics.ObserveTurn(string(state.Intent), result.Outcome, s.now().Sub(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result, nil
}

func (s *Service) resolveOutcome(
	ctx context.Context,
	req TurnRequest,
	convID string,
	turns []extraction.Turn,
	state *extraction.BookingState,
	result *TurnResult,
) error {
	// Low-confidence clarification comes first, unless the user delegated.
	if !state.Delegated && hasLowConfidence(state) {
		question, ok := explain.ClarifyingQuestion(state)
		if !ok {
			question = "Could you share a bit more detail about your booking?"
		}
		result.Outcome = OutcomeClarify
		result.Reply = question
		s.history.Append(convID, extraction.Turn{Role: extraction.RoleAssistant, Content: question})
		s.metrics.ObserveClarification()
		return nil
	}

	switch state.Intent {
	case extraction.IntentModify:
		result.Outcome = OutcomeModifyPrompt
		result.Reply = "You want to modify an existing booking. Please share the booking ID and what you want to change."
		return nil
	case extraction.IntentCancel:
		result.Outcome = OutcomeCancelPrompt
		result.Reply = "You want to cancel a booking. Please share the booking ID to cancel."
		return nil
	}

	if !state.Complete() {
		question, ok := explain.ClarifyingQuestion(state)
		if !ok {
			question = "Could you share a bit more detail about your booking?"
		}
		result.Outcome = OutcomeIncomplete
		result.Reply = question
		s.history.Append(convID, extraction.Turn{Role: extraction.RoleAssistant, Content: question})
		return nil
	}

	if state.Delegated && !req.ConfirmDelegated {
		result.Outcome = OutcomeDelegatedSuggestion
		result.Reply = fmt.Sprintf(
			"You delegated choices to the assistant. Suggested booking: %s on %s at %s in %s. Confirm to book.",
			state.Service, state.Date, state.Time, state.Location,
		)
		return nil
	}

	rec, err := s.engine.BookSlot(ctx, state.Service, state.Date, state.Time, state.Location, nil)
	if err == nil {
		return s.finishBooking(ctx, turns, state, rec, OutcomeBooked, result)
	}
	if !errors.Is(err, availability.ErrSlotConflict) {
		return err
	}

	resolution, err := s.engine.AttemptResolve(ctx, state.Service, state.Date, state.Time, true)
	if err != nil {
		return err
	}
	if req.AutoBook && resolution.Suggestion != "" {
		auto, err := s.engine.AutoBookAlternative(ctx, state.Service, state.Date, state.Time, state.Location)
		if err == nil {
			return s.finishBooking(ctx, turns, state, auto, OutcomeAutoBooked, result)
		}
		if !errors.Is(err, availability.ErrNoAlternative) {
			return err
		}
	}
	result.Outcome = OutcomeUnavailable
	result.Resolution = resolution
	result.Reply = "The selected time is unavailable. Consider the suggested alternatives."
	return nil
}

// finishBooking runs the post-booking flow: conversation-length confidence,
// pricing, meta enrichment, receipt rendering and best-effort enrichers.
func (s *Service) finishBooking(
	ctx context.Context,
	turns []extraction.Turn,
	state *extraction.BookingState,
	rec *booking.Record,
	outcome string,
	result *TurnResult,
) error {
	confidence := round2(100 - float64(len(turns))*2)
	quote := s.pricer.Price(rec.Service, confidence, rec.Meta, rec.Location)

	meta := make(map[string]any, len(rec.Meta)+8)
	for k, v := range rec.Meta {
		meta[k] = v
	}
	meta["price"] = quote.Amount
	meta["currency"] = quote.Currency
	meta["discount_percent"] = quote.DiscountPercent
	meta["delegated"] = state.Delegated
	meta["explanation"] = truncate(state.Explanation(), maxExplanationLen)
	meta["location_auto_selected"] = state.LocationAutoSelected
	meta["service_auto_selected"] = state.ServiceAutoSelected

	updated, err := s.store.Update(ctx, rec.ID, booking.Update{Meta: meta})
	if err != nil {
		return fmt.Errorf("assistant: enrich booking %s: %w", rec.ID, err)
	}

	receipt := receipts.Render(*updated)
	s.enrichers.Apply(ctx, *updated, receipt)
	s.metrics.ObserveBooking(updated.Service, "create")
	s.logger.Info("booking confirmed",
		"booking_id", updated.ID,
		"service", updated.Service,
		"outcome", outcome,
		"price", quote.Amount,
		"currency", quote.Currency,
	)

	result.Outcome = outcome
	result.Receipt = receipt
	result.Booking = &BookingView{
		ID:                   updated.ID,
		Service:              updated.Service,
		Date:                 updated.Date,
		Time:                 updated.Time,
		Location:             updated.Location,
		ConfidencePct:        confidence,
		Price:                quote.Amount,
		DiscountPercent:      quote.DiscountPercent,
		Currency:             quote.Currency,
		Delegated:            state.Delegated,
		ServiceAutoSelected:  state.ServiceAutoSelected,
		LocationAutoSelected: state.LocationAutoSelected,
		Explanation:          truncate(state.Explanation(), maxExplanationLen),
		Status:               "confirmed",
	}
	return nil
}

// ModifyBooking moves an existing booking to a new date and/or time.
func (s *Service) ModifyBooking(ctx context.Context, id string, newDate, newTime *string) (*booking.Record, error) {
	rec, err := s.engine.ModifyBooking(ctx, id, newDate, newTime)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveBooking(rec.Service, "modify")
	return rec, nil
}

// CancelBooking removes a booking by ID.
func (s *Service) CancelBooking(ctx context.Context, id string) (bool, error) {
	ok, err := s.engine.CancelBooking(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.metrics.ObserveBooking("", "cancel")
	}
	return ok, nil
}

// ListBookings returns every booking, optionally filtered by field equality.
func (s *Service) ListBookings(ctx context.Context, f booking.Filter) ([]booking.Record, error) {
	if f == (booking.Filter{}) {
		return s.engine.ListBookings(ctx)
	}
	return s.store.Find(ctx, f)
}

// ResetAll clears bookings and conversation history.
func (s *Service) ResetAll(ctx context.Context) error {
	if err := s.store.ResetAll(ctx); err != nil {
		return err
	}
	s.history.Reset()
	s.logger.Info("admin reset: bookings and conversations cleared")
	return nil
}

// SeedDemoData loads the demo booking fixtures.
func (s *Service) SeedDemoData(ctx context.Context) error {
	if err := s.store.SeedDemoData(ctx); err != nil {
		return err
	}
	s.logger.Info("admin action: demo bookings seeded")
	return nil
}

func hasLowConfidence(state *extraction.BookingState) bool {
	for _, c := range state.Confidences {
		if c > 0 && c < 0.7 {
			return true
		}
	}
	return false
}

func viewOf(state *extraction.BookingState) StateView {
	return StateView{
		Service:              state.Service,
		Date:                 state.Date,
		Time:                 state.Time,
		Location:             state.Location,
		Intent:               string(state.Intent),
		Delegated:            state.Delegated,
		ServiceAutoSelected:  state.ServiceAutoSelected,
		LocationAutoSelected: state.LocationAutoSelected,
		Confidences:          state.Confidences,
		Ambiguities:          state.Ambiguities,
		Explanation:          state.Explanation(),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
