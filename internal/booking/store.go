package booking

import (
	"context"
	"time"
)

// Store is the single owner of persisted booking records. The extraction and
// availability layers only ever read through Find; mutation happens via the
// explicit operations below.
type Store interface {
	// Create persists the record, assigning an id and created_at.
	Create(ctx context.Context, rec Record) (*Record, error)
	// Find returns records matching the filter, ordered by creation time.
	Find(ctx context.Context, f Filter) ([]Record, error)
	// Update applies the partial update to the identified record. Returns
	// ErrNotFound when the id is unknown.
	Update(ctx context.Context, id string, u Update) (*Record, error)
	// Delete removes the record, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	// ListAll returns every record ordered by creation time.
	ListAll(ctx context.Context) ([]Record, error)
	// ResetAll deletes every record (admin action).
	ResetAll(ctx context.Context) error
	// SeedDemoData inserts a few demo bookings for presentation/testing.
	SeedDemoData(ctx context.Context) error
}

// demoRecords builds the seed set with dates relative to the given day so
// seeded rows look current.
func demoRecords(today time.Time) []Record {
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	}
	return []Record{
		{
			Service:  "facial",
			Date:     day(1),
			Time:     "10:00 AM",
			Location: "vijayawada",
			Meta: map[string]any{
				"demo":          true,
				"salon":         "Salon A",
				"salon_contact": "+91-90000-00001",
				"currency":      "INR",
			},
		},
		{
			Service:  "spa",
			Date:     day(2),
			Time:     "11:00 AM",
			Location: "mumbai",
			Meta: map[string]any{
				"demo":          true,
				"salon":         "Urban Spa",
				"salon_contact": "+91-90000-00002",
				"currency":      "INR",
			},
		},
		{
			Service:  "doctor",
			Date:     day(3),
			Time:     "1:00 PM",
			Location: "delhi",
			Meta: map[string]any{
				"demo":          true,
				"salon":         "City Clinic",
				"salon_contact": "+91-90000-00003",
				"currency":      "INR",
			},
		},
	}
}
