package availability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assistkit/booking-assistant/internal/booking"
	"github.com/assistkit/booking-assistant/pkg/logging"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(booking.NewMemoryStore(), logging.Default())
}

func TestBookingRoundTrip(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	available, _, err := engine.CheckAvailability(ctx, "spa", "2099-01-01", "9:00 AM")
	require.NoError(t, err)
	assert.True(t, available)

	rec, err := engine.BookSlot(ctx, "spa", "2099-01-01", "9:00 AM", "bangalore", nil)
	require.NoError(t, err)
	assert.Equal(t, "spa", rec.Service)
	assert.Equal(t, "2099-01-01", rec.Date)
	assert.Equal(t, "9:00 AM", rec.Time)

	available, alternatives, err := engine.CheckAvailability(ctx, "spa", "2099-01-01", "9:00 AM")
	require.NoError(t, err)
	assert.False(t, available)
	assert.Equal(t, []string{"10:00 AM", "11:00 AM", "4:00 PM"}, alternatives)

	ok, err := engine.CancelBooking(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	available, _, err = engine.CheckAvailability(ctx, "spa", "2099-01-01", "9:00 AM")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestUnconfiguredServiceIsAnytime(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	available, slots, err := engine.CheckAvailability(ctx, "submarine tour", "2099-01-01", "9:00 AM")
	require.NoError(t, err)
	assert.True(t, available)
	assert.Equal(t, []string{AnytimeSlot}, slots)

	available, slots, err = engine.CheckAvailability(ctx, "hotel", "2099-01-01", "3:33 AM")
	require.NoError(t, err)
	assert.True(t, available, "Anytime catalogs are always available")
	assert.Equal(t, []string{AnytimeSlot}, slots)
}

func TestNoRequestedTimeReturnsFullCatalog(t *testing.T) {
	engine := newTestEngine(t)
	available, slots, err := engine.CheckAvailability(context.Background(), "salon", "2099-01-01", "")
	require.NoError(t, err)
	assert.True(t, available)
	assert.Equal(t, []string{"10:00 AM", "12:00 PM", "3:00 PM"}, slots)
}

func TestBookSlotConflict(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	_, err := engine.BookSlot(ctx, "dental", "2099-03-03", "9:00 AM", "", nil)
	require.NoError(t, err)

	_, err = engine.BookSlot(ctx, "dental", "2099-03-03", "9:00 AM", "", nil)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestFindNextAvailableSkipsAfterTimeAndTakenSlots(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	// take the second slot; asking after the first should land on the third
	_, err := engine.BookSlot(ctx, "facial", "2099-04-04", "11:00 AM", "", nil)
	require.NoError(t, err)

	next, slots, ok, err := engine.FindNextAvailable(ctx, "facial", "2099-04-04", "10:00 AM")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "3:00 PM", next)
	assert.Equal(t, []string{"10:00 AM", "11:00 AM", "3:00 PM"}, slots)
}

func TestFindNextAvailableNoneLeft(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	for _, slot := range []string{"10:00 AM", "2:00 PM"} {
		_, err := engine.BookSlot(ctx, "head spa", "2099-05-05", slot, "", nil)
		require.NoError(t, err)
	}
	_, _, ok, err := engine.FindNextAvailable(ctx, "head spa", "2099-05-05", "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, ok, err = engine.FindNextAvailable(ctx, "submarine tour", "2099-05-05", "")
	require.NoError(t, err)
	assert.False(t, ok, "unconfigured service has no catalog to scan")
}

func TestAttemptResolveSuggestsSameServiceThenNearby(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	_, err := engine.BookSlot(ctx, "spa", "2099-06-06", "10:00 AM", "", nil)
	require.NoError(t, err)

	res, err := engine.AttemptResolve(ctx, "spa", "2099-06-06", "10:00 AM", true)
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "9:00 AM", res.Suggestion)
	assert.Equal(t, []string{"9:00 AM", "11:00 AM", "4:00 PM"}, res.Alternatives)
	// salon, facial and head spa also offer 10:00 AM
	assert.Equal(t, []OtherOption{
		{Service: "salon", Time: "10:00 AM"},
		{Service: "facial", Time: "10:00 AM"},
		{Service: "head spa", Time: "10:00 AM"},
	}, res.OtherOptions)

	res, err = engine.AttemptResolve(ctx, "spa", "2099-06-06", "10:00 AM", false)
	require.NoError(t, err)
	assert.Empty(t, res.OtherOptions)
}

func TestAttemptResolveAvailableEchoesRequest(t *testing.T) {
	engine := newTestEngine(t)
	res, err := engine.AttemptResolve(context.Background(), "spa", "2099-06-06", "11:00 AM", true)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, "11:00 AM", res.Suggestion)
}

func TestAutoBookAlternative(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	_, err := engine.BookSlot(ctx, "salon", "2099-07-07", "10:00 AM", "", nil)
	require.NoError(t, err)

	rec, err := engine.AutoBookAlternative(ctx, "salon", "2099-07-07", "10:00 AM", "delhi")
	require.NoError(t, err)
	assert.Equal(t, "12:00 PM", rec.Time)

	// exhaust the catalog, then expect the terminal failure
	_, err = engine.BookSlot(ctx, "salon", "2099-07-07", "3:00 PM", "", nil)
	require.NoError(t, err)
	_, err = engine.AutoBookAlternative(ctx, "salon", "2099-07-07", "10:00 AM", "")
	assert.ErrorIs(t, err, ErrNoAlternative)
}

func TestModifyBooking(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	rec, err := engine.BookSlot(ctx, "doctor", "2099-08-08", "9:00 AM", "", nil)
	require.NoError(t, err)
	_, err = engine.BookSlot(ctx, "doctor", "2099-08-08", "1:00 PM", "", nil)
	require.NoError(t, err)

	// moving onto the occupied slot conflicts
	taken := "1:00 PM"
	_, err = engine.ModifyBooking(ctx, rec.ID, nil, &taken)
	assert.ErrorIs(t, err, ErrSlotConflict)

	free := "6:00 PM"
	updated, err := engine.ModifyBooking(ctx, rec.ID, nil, &free)
	require.NoError(t, err)
	assert.Equal(t, "6:00 PM", updated.Time)
	assert.Equal(t, "2099-08-08", updated.Date)

	_, err = engine.ModifyBooking(ctx, "bkg_missing", nil, &free)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}
