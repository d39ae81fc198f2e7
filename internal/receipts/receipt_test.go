package receipts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assistkit/booking-assistant/internal/booking"
	"github.com/assistkit/booking-assistant/internal/notify"
	"github.com/assistkit/booking-assistant/pkg/logging"
)

func sampleRecord() booking.Record {
	return booking.Record{
		ID:        "bkg_sample001",
		Service:   "facial",
		Date:      "2026-03-15",
		Time:      "10:00 AM",
		Location:  "vijayawada",
		CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Meta: map[string]any{
			"salon":       "Salon A",
			"currency":    "INR",
			"price":       1992.6,
			"explanation": "Detected service 'facial'",
		},
	}
}

func TestRenderIncludesBookingFields(t *testing.T) {
	text := Render(sampleRecord())

	assert.Contains(t, text, "Booking Receipt")
	assert.Contains(t, text, "bkg_sample001")
	assert.Contains(t, text, "Salon A")
	assert.Contains(t, text, "2026-03-15")
	assert.Contains(t, text, "10:00 AM")
	assert.Contains(t, text, "₹1992.60")
	assert.Contains(t, text, "Explanation: Detected service 'facial'")
	assert.Contains(t, text, "Thank you for your booking!")
}

func TestRenderDelegatedNote(t *testing.T) {
	rec := sampleRecord()
	rec.Meta["delegated"] = true

	text := Render(rec)

	assert.Contains(t, text, "delegated to the assistant")
}

func TestRenderMissingFieldsNeverFails(t *testing.T) {
	text := Render(booking.Record{ID: "bkg_empty"})

	assert.Contains(t, text, "Location:    -")
	assert.Contains(t, text, "$0.00")
}

func TestRenderSplitsCombinedService(t *testing.T) {
	rec := sampleRecord()
	rec.Service = "facial + manicure"
	rec.Meta["price_per_item"] = 800.0

	text := Render(rec)

	assert.Contains(t, text, "facial")
	assert.Contains(t, text, "manicure")
	assert.Contains(t, text, "₹800.00")
}

type failingEnricher struct{}

func (failingEnricher) Name() string { return "failing" }
func (failingEnricher) Enrich(context.Context, booking.Record, string) error {
	return errors.New("boom")
}

func TestPipelineContinuesPastFailures(t *testing.T) {
	stub := notify.NewStubEmailSender(logging.Default())
	rec := sampleRecord()
	rec.Meta["contact_email"] = "guest@example.com"

	p := NewPipeline(logging.Default(), failingEnricher{}, NewEmailEnricher(stub), NewEmailEnricher(nil))
	p.Apply(context.Background(), rec, Render(rec))

	require.Len(t, stub.Sent, 1)
	assert.Equal(t, "guest@example.com", stub.Sent[0].To)
	assert.Contains(t, stub.Sent[0].Subject, "facial")
}

func TestEmailEnricherSkipsWithoutContact(t *testing.T) {
	stub := notify.NewStubEmailSender(logging.Default())
	e := NewEmailEnricher(stub)

	err := e.Enrich(context.Background(), sampleRecord(), "text")

	require.NoError(t, err)
	assert.Empty(t, stub.Sent)
}
