// Package booking owns persisted reservation records. It exposes a Store
// interface with field-equality lookups plus in-memory, Redis and Postgres
// implementations.
package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an id does not resolve to a stored booking.
var ErrNotFound = errors.New("booking: not found")

// Record is a persisted booking. ID is assigned on create and immutable for
// the record's lifetime.
type Record struct {
	ID        string         `json:"id"`
	Service   string         `json:"service"`
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	Location  string         `json:"location"`
	CreatedAt time.Time      `json:"created_at"`
	Meta      map[string]any `json:"meta"`
}

// Filter selects records by exact field equality. Zero-valued fields match
// anything.
type Filter struct {
	Service  string
	Date     string
	Time     string
	Location string
}

// Matches reports whether the record satisfies every set filter field.
func (f Filter) Matches(r Record) bool {
	if f.Service != "" && r.Service != f.Service {
		return false
	}
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	if f.Time != "" && r.Time != f.Time {
		return false
	}
	if f.Location != "" && r.Location != f.Location {
		return false
	}
	return true
}

// Update carries the mutable fields of a booking. Nil pointers leave the
// stored value untouched.
type Update struct {
	Date     *string
	Time     *string
	Location *string
	Meta     map[string]any
}

// NewID generates an opaque booking id.
func NewID() string {
	return "bkg_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
