// Package pricing quotes booking prices from the extracted service, the
// extraction confidence, and the booking location.
package pricing

import (
	"math"
	"strings"

	"github.com/assistkit/booking-assistant/pkg/logging"
)

var basePrices = map[string]float64{
	"spa":         50,
	"salon":       40,
	"doctor":      100,
	"head spa":    60,
	"facial":      27,
	"dental":      80,
	"hotel":       150,
	"travel":      80,
	"appointment": 30,
	"flight":      200,
}

const defaultBasePrice = 50.0

// indianCities maps a lowercase location to an INR quote when the booking
// meta carries no explicit currency.
var indianCities = map[string]struct{}{
	"bangalore":   {},
	"bengaluru":   {},
	"delhi":       {},
	"mumbai":      {},
	"chennai":     {},
	"hyderabad":   {},
	"vijayawada":  {},
	"mangalagiri": {},
	"kolkata":     {},
	"pune":        {},
	"ahmedabad":   {},
}

// Quote is a priced booking.
type Quote struct {
	Amount          float64 `json:"amount"`
	DiscountPercent float64 `json:"discount_percent"`
	Currency        string  `json:"currency"`
}

// Engine computes quotes. Exchange rates come from the injected RateCache.
type Engine struct {
	rates  *RateCache
	logger *logging.Logger
}

// NewEngine creates a pricing engine.
func NewEngine(rates *RateCache, logger *logging.Logger) *Engine {
	if rates == nil {
		panic("pricing: rate cache is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{rates: rates, logger: logger}
}

// Price quotes a booking. confidencePct is the explainability score on the
// 0..100 scale; higher confidence earns a larger discount.
func (e *Engine) Price(service string, confidencePct float64, meta map[string]any, location string) Quote {
	base, ok := basePrices[strings.ToLower(service)]
	if !ok {
		base = defaultBasePrice
	}

	discount := discountFor(confidencePct)
	if loyaltyTier(meta) == "gold" {
		discount += 5
	}

	amount := round2(base * (1 - discount/100))
	currency := currencyFor(meta, location)
	if currency == "INR" {
		amount = round2(amount * e.rates.GetRate("INR"))
	}

	e.logger.Debug("price quoted",
		"service", service,
		"confidence_pct", confidencePct,
		"discount_pct", discount,
		"amount", amount,
		"currency", currency,
	)
	return Quote{Amount: amount, DiscountPercent: discount, Currency: currency}
}

func discountFor(confidencePct float64) float64 {
	switch {
	case confidencePct >= 90:
		return 15
	case confidencePct >= 75:
		return 10
	case confidencePct >= 50:
		return 5
	default:
		return 0
	}
}

func loyaltyTier(meta map[string]any) string {
	if meta == nil {
		return ""
	}
	tier, _ := meta["loyalty_tier"].(string)
	return strings.ToLower(tier)
}

func currencyFor(meta map[string]any, location string) string {
	if meta != nil {
		if cur, ok := meta["currency"].(string); ok && cur != "" {
			return strings.ToUpper(cur)
		}
	}
	if _, ok := indianCities[strings.ToLower(strings.TrimSpace(location))]; ok {
		return "INR"
	}
	return "USD"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
