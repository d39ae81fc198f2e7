package pricing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assistkit/booking-assistant/pkg/logging"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cache := NewRateCache(RateCacheConfig{}, logging.Default())
	return NewEngine(cache, logging.Default())
}

func TestPriceIndianCityUsesDemoINRRate(t *testing.T) {
	engine := newTestEngine(t)

	quote := engine.Price("facial", 76.0, nil, "vijayawada")

	assert.Equal(t, "INR", quote.Currency)
	assert.Equal(t, 10.0, quote.DiscountPercent)
	// 27 * 0.90 = 24.3 USD, at the demo rate of 82.0.
	assert.InDelta(t, 1992.6, quote.Amount, 0.001)
}

func TestPriceDiscountTiers(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		confidence float64
		discount   float64
		amount     float64
	}{
		{95, 15, 42.5},
		{90, 15, 42.5},
		{76, 10, 45},
		{60, 5, 47.5},
		{40, 0, 50},
	}
	for _, tc := range cases {
		quote := engine.Price("spa", tc.confidence, nil, "paris")
		assert.Equal(t, tc.discount, quote.DiscountPercent, "confidence %v", tc.confidence)
		assert.InDelta(t, tc.amount, quote.Amount, 0.001, "confidence %v", tc.confidence)
		assert.Equal(t, "USD", quote.Currency)
	}
}

func TestPriceGoldLoyaltyAddsFivePercent(t *testing.T) {
	engine := newTestEngine(t)

	quote := engine.Price("salon", 92.0, map[string]any{"loyalty_tier": "Gold"}, "london")

	assert.Equal(t, 20.0, quote.DiscountPercent)
	assert.InDelta(t, 32.0, quote.Amount, 0.001)
}

func TestPriceUnknownServiceUsesDefaultBase(t *testing.T) {
	engine := newTestEngine(t)

	quote := engine.Price("juggling lessons", 10.0, nil, "")

	assert.Equal(t, 0.0, quote.DiscountPercent)
	assert.InDelta(t, 50.0, quote.Amount, 0.001)
	assert.Equal(t, "USD", quote.Currency)
}

func TestPriceMetaCurrencyOverridesLocation(t *testing.T) {
	engine := newTestEngine(t)

	quote := engine.Price("doctor", 50.0, map[string]any{"currency": "eur"}, "mumbai")

	assert.Equal(t, "EUR", quote.Currency)
	assert.InDelta(t, 95.0, quote.Amount, 0.001)
}

func TestRateCacheFetchesLiveRateAndCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"rates":{"INR":84.5}}`))
	}))
	defer srv.Close()

	cache := NewRateCache(RateCacheConfig{APIKey: "test-key", BaseURL: srv.URL}, logging.Default())

	require.InDelta(t, 84.5, cache.GetRate("INR"), 0.001)
	require.InDelta(t, 84.5, cache.GetRate("INR"), 0.001)
	assert.Equal(t, 1, calls)
}

func TestRateCacheFallsBackOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	srv.Close()

	cache := NewRateCache(RateCacheConfig{APIKey: "test-key", BaseURL: srv.URL}, logging.Default())

	assert.InDelta(t, 82.0, cache.GetRate("INR"), 0.001)
	assert.InDelta(t, 1.0, cache.GetRate("JPY"), 0.001)
}

func TestRateCacheSkipsNetworkWithoutAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected fx request")
	}))
	defer srv.Close()

	cache := NewRateCache(RateCacheConfig{BaseURL: srv.URL}, logging.Default())

	assert.InDelta(t, 82.0, cache.GetRate("INR"), 0.001)
}
