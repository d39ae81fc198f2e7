// Package availability reconciles requested (service, date, time) tuples
// against a static slot catalog and the booking store, with conflict detection
// and alternative-slot suggestion.
package availability

// AnytimeSlot marks a service whose catalog accepts any time.
const AnytimeSlot = "Anytime"

// Catalog holds the fixed per-service slot offering. Slot order is the
// declared order and drives next-available scanning.
type Catalog struct {
	order []string
	slots map[string][]string
}

// NewCatalog builds a catalog from an ordered list of (service, times) pairs.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{slots: make(map[string][]string, len(entries))}
	for _, e := range entries {
		c.order = append(c.order, e.Service)
		c.slots[e.Service] = e.Times
	}
	return c
}

// CatalogEntry pairs a service with its offered times.
type CatalogEntry struct {
	Service string
	Times   []string
}

// DefaultCatalog returns the standard slot offering.
func DefaultCatalog() *Catalog {
	return NewCatalog([]CatalogEntry{
		{"spa", []string{"9:00 AM", "10:00 AM", "11:00 AM", "4:00 PM"}},
		{"salon", []string{"10:00 AM", "12:00 PM", "3:00 PM"}},
		{"facial", []string{"10:00 AM", "11:00 AM", "3:00 PM"}},
		{"dental", []string{"9:00 AM", "11:00 AM", "2:00 PM"}},
		{"doctor", []string{"9:00 AM", "1:00 PM", "6:00 PM"}},
		{"head spa", []string{"10:00 AM", "2:00 PM"}},
		{"hotel", []string{AnytimeSlot}},
		{"travel", []string{"Morning", "Evening"}},
	})
}

// Slots returns the offered times for a service and whether it is configured.
func (c *Catalog) Slots(service string) ([]string, bool) {
	times, ok := c.slots[service]
	return times, ok
}

// Services returns the configured services in declared order.
func (c *Catalog) Services() []string {
	return c.order
}
