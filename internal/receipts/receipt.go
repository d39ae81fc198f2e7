// Package receipts renders plain-text receipts for confirmed bookings and
// applies best-effort enrichers on top of the guaranteed text.
package receipts

import (
	"fmt"
	"strings"
	"time"

	"github.com/assistkit/booking-assistant/internal/booking"
)

// Item is a single line on the receipt.
type Item struct {
	Name  string
	Price float64
}

func currencySymbol(code string) string {
	if strings.EqualFold(code, "INR") {
		return "₹"
	}
	return "$"
}

// Render produces the plain-text receipt for a booking. Rendering never
// fails: missing fields print as "-".
func Render(rec booking.Record) string {
	currency := metaString(rec.Meta, "currency")
	if currency == "" {
		currency = "USD"
	}
	symbol := currencySymbol(currency)

	var b strings.Builder
	b.WriteString("Booking Receipt\n")
	b.WriteString("===============\n")
	writeField(&b, "Booking ID", rec.ID)
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	writeField(&b, "Created", created.UTC().Format(time.RFC3339))
	salon := metaString(rec.Meta, "salon")
	if salon == "" {
		salon = rec.Location
	}
	writeField(&b, "Salon", salon)
	writeField(&b, "Location", rec.Location)
	writeField(&b, "Date", rec.Date)
	writeField(&b, "Time", rec.Time)
	b.WriteString("\n")

	items := itemsFor(rec)
	var subtotal float64
	for _, it := range items {
		subtotal += it.Price
		fmt.Fprintf(&b, "%-24s %s%.2f\n", it.Name, symbol, it.Price)
	}
	taxes := metaFloat(rec.Meta, "taxes")
	total := metaFloat(rec.Meta, "price")
	if total == 0 {
		total = subtotal + taxes
	}
	fmt.Fprintf(&b, "%-24s %s%.2f\n", "Subtotal", symbol, subtotal)
	fmt.Fprintf(&b, "%-24s %s%.2f\n", "Taxes", symbol, taxes)
	fmt.Fprintf(&b, "%-24s %s%.2f\n", "Total", symbol, total)
	b.WriteString("\n")

	if delegated, _ := rec.Meta["delegated"].(bool); delegated {
		b.WriteString("Note: booking choices were delegated to the assistant.\n")
	}
	if expl := metaString(rec.Meta, "explanation"); expl != "" {
		b.WriteString("Explanation: " + expl + "\n")
	}
	b.WriteString("\nThank you for your booking! For changes, contact the salon directly.\n")
	return b.String()
}

// itemsFor splits multi-part services ("facial + manicure") into one item per
// part; a single service carries the full price.
func itemsFor(rec booking.Record) []Item {
	price := metaFloat(rec.Meta, "price")
	svc := rec.Service
	if svc == "" {
		svc = "Service"
	}
	if !strings.Contains(svc, "+") {
		return []Item{{Name: svc, Price: price}}
	}
	var items []Item
	for _, part := range strings.Split(svc, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, Item{Name: part})
	}
	perItem := metaFloat(rec.Meta, "price_per_item")
	if perItem == 0 && len(items) > 0 {
		perItem = price
	}
	for i := range items {
		items[i].Price = perItem
	}
	return items
}

func writeField(b *strings.Builder, name, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(b, "%-12s %s\n", name+":", value)
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	s, _ := meta[key].(string)
	return s
}

func metaFloat(meta map[string]any, key string) float64 {
	if meta == nil {
		return 0
	}
	switch v := meta[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
