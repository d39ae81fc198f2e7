package pricing

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/assistkit/booking-assistant/pkg/logging"
)

// demoRates are the static fallback exchange rates (per USD) used when no FX
// API is configured or the live fetch fails.
var demoRates = map[string]float64{
	"INR": 82.0,
}

// RateCacheConfig configures the live FX lookup. An empty APIKey disables
// network calls entirely.
type RateCacheConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// RateCache is an explicitly owned exchange-rate cache. Rates are fetched at
// most once per process per currency; every failure degrades to the demo
// rate, never to an error.
type RateCache struct {
	cfg    RateCacheConfig
	client *http.Client
	logger *logging.Logger

	mu    sync.Mutex
	rates map[string]float64
}

// NewRateCache creates a rate cache.
func NewRateCache(cfg RateCacheConfig, logger *logging.Logger) *RateCache {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &RateCache{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		rates:  make(map[string]float64),
	}
}

// GetRate returns the USD→code exchange rate.
func (c *RateCache) GetRate(code string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rate, ok := c.rates[code]; ok {
		return rate
	}
	if c.cfg.APIKey != "" && c.cfg.BaseURL != "" {
		if rate, ok := c.fetch(code); ok {
			c.rates[code] = rate
			return rate
		}
	}
	rate, ok := demoRates[code]
	if !ok {
		rate = 1.0
	}
	c.rates[code] = rate
	return rate
}

func (c *RateCache) fetch(code string) (float64, bool) {
	resp, err := c.client.Get(c.cfg.BaseURL)
	if err != nil {
		c.logger.Warn("fx rate fetch failed, using demo rate", "currency", code, "error", err)
		return 0, false
	}
	defer resp.Body.Close()

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("fx rate decode failed, using demo rate", "currency", code, "error", err)
		return 0, false
	}
	rate, ok := payload.Rates[code]
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}
