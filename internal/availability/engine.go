package availability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/assistkit/booking-assistant/internal/booking"
	"github.com/assistkit/booking-assistant/pkg/logging"
)

var (
	// ErrSlotConflict is returned when a slot became unavailable between the
	// availability check and the write. Callers should re-check and may retry
	// with an alternative.
	ErrSlotConflict = errors.New("availability: requested time is not available")
	// ErrNoAlternative is returned when auto-booking finds no free slot.
	ErrNoAlternative = errors.New("availability: no alternative slots available")
)

// Engine answers availability questions and reserves slots through the
// booking store. Single-writer model: the check-then-act gap between
// CheckAvailability and the store write is an accepted limitation.
type Engine struct {
	catalog *Catalog
	store   booking.Store
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewEngine creates an engine over the default catalog.
func NewEngine(store booking.Store, logger *logging.Logger) *Engine {
	return NewEngineWithCatalog(DefaultCatalog(), store, logger)
}

// NewEngineWithCatalog allows injecting a custom catalog, used by tests.
func NewEngineWithCatalog(catalog *Catalog, store booking.Store, logger *logging.Logger) *Engine {
	if store == nil {
		panic("availability: booking store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		catalog: catalog,
		store:   store,
		logger:  logger,
		tracer:  otel.Tracer("assistkit.internal.availability"),
	}
}

// CheckAvailability reports whether (service, date, timeSlot) is free and
// returns candidate slots. Unconfigured services are universally available
// with the Anytime sentinel; when no time is requested the full catalog comes
// back and the caller still has to choose one. When the exact slot is taken
// the remaining catalog entries are returned as alternatives.
func (e *Engine) CheckAvailability(ctx context.Context, service, date, timeSlot string) (bool, []string, error) {
	slots, ok := e.catalog.Slots(service)
	if !ok {
		return true, []string{AnytimeSlot}, nil
	}
	for _, s := range slots {
		if s == AnytimeSlot {
			return true, slots, nil
		}
	}
	if timeSlot == "" {
		return true, slots, nil
	}

	existing, err := e.store.Find(ctx, booking.Filter{Service: service, Date: date, Time: timeSlot})
	if err != nil {
		return false, nil, fmt.Errorf("availability: check existing bookings: %w", err)
	}
	if len(existing) > 0 {
		var alternatives []string
		for _, s := range slots {
			if s != timeSlot {
				alternatives = append(alternatives, s)
			}
		}
		return false, alternatives, nil
	}
	return true, slots, nil
}

// FindNextAvailable scans the catalog in declared order, skipping the
// afterTime entry itself, and returns the first slot with no existing booking
// for (service, date). ok is false when the service is unconfigured or every
// slot is taken.
func (e *Engine) FindNextAvailable(ctx context.Context, service, date, afterTime string) (string, []string, bool, error) {
	slots, configured := e.catalog.Slots(service)
	if !configured {
		return "", nil, false, nil
	}
	for _, s := range slots {
		if afterTime != "" && s == afterTime {
			continue
		}
		booked, err := e.store.Find(ctx, booking.Filter{Service: service, Date: date, Time: s})
		if err != nil {
			return "", nil, false, fmt.Errorf("availability: scan slot %q: %w", s, err)
		}
		if len(booked) == 0 {
			return s, slots, true, nil
		}
	}
	return "", nil, false, nil
}

// OtherOption is a cross-service slot that happens to offer the requested
// time. A nearby-match heuristic, not a scored recommendation.
type OtherOption struct {
	Service string `json:"service"`
	Time    string `json:"time"`
}

// Resolution describes how an unavailable request can still be satisfied.
type Resolution struct {
	Available    bool          `json:"available"`
	Suggestion   string        `json:"suggestion,omitempty"`
	Alternatives []string      `json:"alternatives"`
	OtherOptions []OtherOption `json:"other_options,omitempty"`
}

// AttemptResolve produces resolution actions for a requested slot. When the
// slot is free the resolution echoes the request; otherwise it carries the
// next available suggestion, the remaining alternatives, and (if allowNearby)
// other services offering the exact requested time.
func (e *Engine) AttemptResolve(ctx context.Context, service, date, timeSlot string, allowNearby bool) (*Resolution, error) {
	ctx, span := e.tracer.Start(ctx, "availability.attempt_resolve")
	defer span.End()
	span.SetAttributes(attribute.String("booking.service", service))

	available, slots, err := e.CheckAvailability(ctx, service, date, timeSlot)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if available {
		return &Resolution{Available: true, Suggestion: timeSlot, Alternatives: slots}, nil
	}

	res := &Resolution{Available: false, Alternatives: slots}
	next, _, ok, err := e.FindNextAvailable(ctx, service, date, timeSlot)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if ok {
		res.Suggestion = next
	}

	if allowNearby {
		for _, other := range e.catalog.Services() {
			if other == service {
				continue
			}
			otherSlots, _ := e.catalog.Slots(other)
			for _, s := range otherSlots {
				if s == timeSlot {
					res.OtherOptions = append(res.OtherOptions, OtherOption{Service: other, Time: timeSlot})
				}
			}
		}
	}
	return res, nil
}

// BookSlot reserves (service, date, timeSlot), re-validating availability
// immediately before the write. Returns ErrSlotConflict if the slot is taken
// at write time.
func (e *Engine) BookSlot(ctx context.Context, service, date, timeSlot, location string, meta map[string]any) (*booking.Record, error) {
	ctx, span := e.tracer.Start(ctx, "availability.book_slot")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.service", service),
		attribute.String("booking.date", date),
	)

	available, _, err := e.CheckAvailability(ctx, service, date, timeSlot)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !available {
		span.RecordError(ErrSlotConflict)
		return nil, fmt.Errorf("%w: %s %s at %s", ErrSlotConflict, service, date, timeSlot)
	}

	rec, err := e.store.Create(ctx, booking.Record{
		Service:  service,
		Date:     date,
		Time:     timeSlot,
		Location: location,
		Meta:     meta,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("availability: persist booking: %w", err)
	}
	e.logger.Info("slot booked", "booking_id", rec.ID, "service", service, "date", date, "time", timeSlot)
	return rec, nil
}

// AutoBookAlternative books the next available slot after the requested time
// (or the first free slot when no time was requested). Returns
// ErrNoAlternative when nothing is free.
func (e *Engine) AutoBookAlternative(ctx context.Context, service, date, timeSlot, location string) (*booking.Record, error) {
	next, _, ok, err := e.FindNextAvailable(ctx, service, date, timeSlot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrNoAlternative, service, date)
	}
	return e.BookSlot(ctx, service, date, next, location, nil)
}

// ModifyBooking moves an existing booking to a new date and/or time after
// re-checking availability. Nil arguments keep the stored value.
func (e *Engine) ModifyBooking(ctx context.Context, id string, newDate, newTime *string) (*booking.Record, error) {
	existing, err := e.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	date := existing.Date
	if newDate != nil {
		date = *newDate
	}
	timeSlot := existing.Time
	if newTime != nil {
		timeSlot = *newTime
	}

	available, _, err := e.CheckAvailability(ctx, existing.Service, date, timeSlot)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("%w: %s %s at %s", ErrSlotConflict, existing.Service, date, timeSlot)
	}

	updated, err := e.store.Update(ctx, id, booking.Update{Date: &date, Time: &timeSlot})
	if err != nil {
		return nil, fmt.Errorf("availability: apply modification: %w", err)
	}
	e.logger.Info("booking modified", "booking_id", id, "date", date, "time", timeSlot)
	return updated, nil
}

// CancelBooking removes a booking, reporting whether it existed.
func (e *Engine) CancelBooking(ctx context.Context, id string) (bool, error) {
	ok, err := e.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("availability: cancel booking: %w", err)
	}
	if ok {
		e.logger.Info("booking cancelled", "booking_id", id)
	}
	return ok, nil
}

// ListBookings returns every persisted booking in creation order.
func (e *Engine) ListBookings(ctx context.Context) ([]booking.Record, error) {
	return e.store.ListAll(ctx)
}

func (e *Engine) findByID(ctx context.Context, id string) (*booking.Record, error) {
	all, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("availability: load bookings: %w", err)
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, booking.ErrNotFound
}
