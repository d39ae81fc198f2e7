// Package extraction builds a booking state from free-form conversation
// turns: heuristic slot filling with per-field confidence, ambiguity tracking,
// intent classification and delegated-default inference.
package extraction

import "strings"

// Role identifies the author of a conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single conversation message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Intent classifies what the user wants done with a booking.
type Intent string

const (
	IntentBook   Intent = "book"
	IntentModify Intent = "modify"
	IntentCancel Intent = "cancel"
)

// Field names the four slot fields tracked by the extractor.
type Field string

const (
	FieldService  Field = "service"
	FieldDate     Field = "date"
	FieldTime     Field = "time"
	FieldLocation Field = "location"
)

// SlotFields lists the slot fields in canonical order.
var SlotFields = []Field{FieldService, FieldDate, FieldTime, FieldLocation}

// BookingState is the ephemeral result of replaying a conversation. Fields
// set by direct evidence are never overwritten by lower-priority sources;
// defaults only fire for fields still unset after every turn is processed.
type BookingState struct {
	Service  string `json:"service,omitempty"`
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`

	Intent    Intent `json:"intent"`
	Delegated bool   `json:"delegated"`

	// Auto-selection flags mark values filled by a default rather than a
	// user statement, so the UI never pretends they were user-provided.
	LocationAutoSelected bool `json:"location_auto_selected"`
	ServiceAutoSelected  bool `json:"service_auto_selected"`

	Confidences map[Field]float64 `json:"confidences"`
	Ambiguities []string          `json:"ambiguities"`

	explanations []string
}

func newBookingState() *BookingState {
	return &BookingState{
		Intent: IntentBook,
		Confidences: map[Field]float64{
			FieldService:  0,
			FieldDate:     0,
			FieldTime:     0,
			FieldLocation: 0,
		},
	}
}

// FieldValue returns the current value of a slot field.
func (s *BookingState) FieldValue(f Field) string {
	switch f {
	case FieldService:
		return s.Service
	case FieldDate:
		return s.Date
	case FieldTime:
		return s.Time
	case FieldLocation:
		return s.Location
	}
	return ""
}

// Missing lists the slot fields that remain unset, in canonical order.
func (s *BookingState) Missing() []Field {
	var out []Field
	for _, f := range SlotFields {
		if s.FieldValue(f) == "" {
			out = append(out, f)
		}
	}
	return out
}

// Complete reports whether every slot field is set.
func (s *BookingState) Complete() bool {
	return len(s.Missing()) == 0
}

// Explanation is the ordered, human-readable trace of every decision made
// while building the state.
func (s *BookingState) Explanation() string {
	return strings.Join(s.explanations, "; ")
}

func (s *BookingState) explain(clause string) {
	s.explanations = append(s.explanations, clause)
}
