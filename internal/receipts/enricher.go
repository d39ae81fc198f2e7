package receipts

import (
	"context"
	"fmt"

	"github.com/assistkit/booking-assistant/internal/booking"
	"github.com/assistkit/booking-assistant/internal/notify"
	"github.com/assistkit/booking-assistant/pkg/logging"
)

// Enricher adds an optional capability on top of the plain-text receipt,
// such as emailing it. Enrichment failures never fail the booking.
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, rec booking.Record, receipt string) error
}

// Pipeline applies enrichers in order, logging and skipping failures.
type Pipeline struct {
	enrichers []Enricher
	logger    *logging.Logger
}

// NewPipeline creates an enrichment pipeline. Nil enrichers are skipped so
// callers can pass conditionally constructed ones directly.
func NewPipeline(logger *logging.Logger, enrichers ...Enricher) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	kept := make([]Enricher, 0, len(enrichers))
	for _, e := range enrichers {
		if e != nil {
			kept = append(kept, e)
		}
	}
	return &Pipeline{enrichers: kept, logger: logger}
}

// Apply runs every enricher against the booking. The receipt text returned is
// always the input text: enrichers act on the side, they do not rewrite it.
func (p *Pipeline) Apply(ctx context.Context, rec booking.Record, receipt string) {
	for _, e := range p.enrichers {
		if err := e.Enrich(ctx, rec, receipt); err != nil {
			p.logger.Warn("receipt enricher failed, continuing",
				"enricher", e.Name(), "booking_id", rec.ID, "error", err)
		}
	}
}

// EmailEnricher emails the receipt to the contact address stored on the
// booking meta under "contact_email".
type EmailEnricher struct {
	sender notify.EmailSender
}

// NewEmailEnricher wraps an email sender. Returns nil when sender is nil so
// the pipeline drops it.
func NewEmailEnricher(sender notify.EmailSender) *EmailEnricher {
	if sender == nil {
		return nil
	}
	return &EmailEnricher{sender: sender}
}

func (e *EmailEnricher) Name() string { return "email" }

func (e *EmailEnricher) Enrich(ctx context.Context, rec booking.Record, receipt string) error {
	to := metaString(rec.Meta, "contact_email")
	if to == "" {
		return nil
	}
	return e.sender.Send(ctx, notify.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Booking confirmed: %s on %s", rec.Service, rec.Date),
		Body:    receipt,
	})
}
