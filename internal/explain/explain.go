// Package explain derives an explainability score from a booking state's
// confidences and ambiguities, and produces a single clarifying question when
// confidence is low or an entity stayed ambiguous.
package explain

import (
	"fmt"
	"math"

	"github.com/assistkit/booking-assistant/internal/extraction"
)

const (
	ambiguityPenaltyStep = 0.15
	ambiguityPenaltyCap  = 0.45
	missingPenaltyStep   = 0.10
	missingPenaltyCap    = 0.30
)

// Breakdown carries the score components, percentages rounded to 2 decimals.
type Breakdown struct {
	AvgConfidence       float64 `json:"avg_confidence"`
	AmbiguityCount      int     `json:"ambiguity_count"`
	AmbiguityPenaltyPct float64 `json:"ambiguity_penalty_pct"`
	MissingCount        int     `json:"missing_count"`
	MissingPenaltyPct   float64 `json:"missing_penalty_pct"`
	Score               float64 `json:"score"`
}

// Score computes the 0-100 explainability score: average field confidence
// scaled down by ambiguity and missing-field penalties, clamped to [0, 1]
// before scaling.
func Score(state *extraction.BookingState) Breakdown {
	avg := 0.0
	if len(state.Confidences) > 0 {
		sum := 0.0
		for _, v := range state.Confidences {
			sum += v
		}
		avg = sum / float64(len(state.Confidences))
	}

	ambiguityPenalty := math.Min(float64(len(state.Ambiguities))*ambiguityPenaltyStep, ambiguityPenaltyCap)
	missing := len(state.Missing())
	missingPenalty := math.Min(float64(missing)*missingPenaltyStep, missingPenaltyCap)

	raw := avg * (1.0 - ambiguityPenalty - missingPenalty)
	score := math.Max(0, math.Min(1, raw)) * 100.0

	return Breakdown{
		AvgConfidence:       round2(avg * 100),
		AmbiguityCount:      len(state.Ambiguities),
		AmbiguityPenaltyPct: round2(ambiguityPenalty * 100),
		MissingCount:        missing,
		MissingPenaltyPct:   round2(missingPenalty * 100),
		Score:               round2(score),
	}
}

// fuzzyRanges maps common vague time words to human-readable ranges for the
// disambiguation question.
var fuzzyRanges = map[string]string{
	"morning":     "between 7 AM and 11 AM",
	"afternoon":   "between 12 PM and 4 PM",
	"evening":     "between 4 PM and 9 PM",
	"night":       "after 9 PM",
	"noon":        "around 12 PM",
	"after lunch": "between 2 PM and 4 PM",
}

var lowConfidenceQuestions = map[extraction.Field]string{
	extraction.FieldLocation: "Which city or location do you prefer for this booking?",
	extraction.FieldService:  "Which service would you like (e.g., spa, salon, doctor)?",
	extraction.FieldTime:     "What time of day do you prefer? (e.g., 9 AM, afternoon, evening)",
	extraction.FieldDate:     "On which date would you like the booking?",
}

var missingFieldQuestions = map[extraction.Field]string{
	extraction.FieldService:  "Which service do you want to book? (spa, salon, doctor, etc.)",
	extraction.FieldDate:     "Which date would you prefer for this booking?",
	extraction.FieldTime:     "What time would you like?",
	extraction.FieldLocation: "Which city or location should I use for this booking?",
}

// ClarifyingQuestion generates one concise question from the state. Priority:
// first ambiguity token, then the first field with confidence below 0.7, then
// the first missing field. ok is false when nothing qualifies.
func ClarifyingQuestion(state *extraction.BookingState) (string, bool) {
	if len(state.Ambiguities) > 0 {
		token := state.Ambiguities[0]
		if r, ok := fuzzyRanges[token]; ok {
			return fmt.Sprintf("When you say '%s', do you mean %s?", token, r), true
		}
		return fmt.Sprintf("Could you clarify what you mean by '%s' for the time?", token), true
	}

	for _, f := range extraction.SlotFields {
		if conf, ok := state.Confidences[f]; ok && conf < 0.7 {
			return lowConfidenceQuestions[f], true
		}
	}

	for _, f := range extraction.SlotFields {
		if state.FieldValue(f) == "" {
			return missingFieldQuestions[f], true
		}
	}

	return "", false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
