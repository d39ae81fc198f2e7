package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assistkit/booking-assistant/pkg/logging"
)

func TestNewSendGridSenderRequiresAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{}, logging.Default())
	assert.Nil(t, sender)
}

func TestNewSendGridSenderDefaultsFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "sg-key", FromEmail: "noreply@example.com"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "Booking Assistant", sender.fromName)
}

func TestStubEmailSenderRecordsMessages(t *testing.T) {
	stub := NewStubEmailSender(logging.Default())

	err := stub.Send(context.Background(), EmailMessage{
		To:      "guest@example.com",
		Subject: "Booking confirmed",
		Body:    "see you soon",
	})

	require.NoError(t, err)
	require.Len(t, stub.Sent, 1)
	assert.Equal(t, "Booking confirmed", stub.Sent[0].Subject)
}
