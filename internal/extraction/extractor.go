package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/assistkit/booking-assistant/internal/timeparse"
	"github.com/assistkit/booking-assistant/pkg/logging"
)

// Services recognized by keyword, in match-priority order.
var Services = []string{
	"hotel", "flight", "appointment", "spa",
	"salon", "head spa", "hospital", "doctor", "travel",
}

// Cities known to the assistant. The first entry doubles as the delegation
// fallback location.
var Cities = []string{
	"bangalore", "delhi", "mumbai",
	"chennai", "hyderabad", "mangalagiri", "vijayawada",
}

var delegationPhrases = []string{
	"you decide",
	"you pick",
	"you choose",
	"book it",
	"do it",
	"go ahead",
	"surprise me",
	"anything works",
	"i don't care",
	"i dont care",
	"up to you",
	"whatever you think",
}

var (
	cancelWords = []string{"cancel", "cancelled", "delete"}
	modifyWords = []string{"change", "modify", "reschedule"}
	facialWords = []string{"facial", "face", "skincare", "cleaning", "derma"}
	dentalWords = []string{"dental", "dentist"}
)

// fuzzyTimes maps vague time-of-day words to concrete defaults. Checked in
// declared order so "afternoon" wins over its "noon" substring.
var fuzzyTimes = []struct {
	Token    string
	Resolved string
}{
	{"morning", "10:00 AM"},
	{"afternoon", "2:00 PM"},
	{"evening", "6:00 PM"},
	{"night", "8:00 PM"},
	{"noon", "12:00 PM"},
	{"after lunch", "2:00 PM"},
	{"before lunch", "11:30 AM"},
}

const fallbackTime = "10:00 AM"

var locationPatternRE = regexp.MustCompile(`in\s+([a-zA-Z ]{3,30})`)

// SlotFinder is the read-only availability view the extractor uses when the
// user delegated time selection. The extractor never mutates storage.
type SlotFinder interface {
	FindNextAvailable(ctx context.Context, service, date, afterTime string) (string, []string, bool, error)
}

// Extractor is the booking-state extraction engine.
type Extractor struct {
	slots  SlotFinder
	logger *logging.Logger
}

// NewExtractor creates an extractor. slots may be nil, in which case
// delegated time defaults fall back to the static default.
func NewExtractor(slots SlotFinder, logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{slots: slots, logger: logger}
}

// Extract replays the full conversation in chronological order and returns
// the accumulated booking state. State accumulates monotonically: once a slot
// field is set by direct evidence it is never cleared or overwritten by a
// lower-priority source. The today argument anchors relative dates, so the
// same history always yields the same state.
func (e *Extractor) Extract(ctx context.Context, turns []Turn, today time.Time) *BookingState {
	state := newBookingState()

	// free-form "in <words>" phrase kept aside for the delegation fallback
	explicitLocation := ""

	for _, turn := range turns {
		text := strings.ToLower(turn.Content)

		// 1. explicit "in <city>" pattern; known cities commit, anything
		// else is stashed as a candidate
		if m := locationPatternRE.FindStringSubmatch(text); m != nil {
			candidate := strings.TrimSpace(m[1])
			if containsString(Cities, candidate) {
				if state.Location == "" {
					state.Location = candidate
					state.Confidences[FieldLocation] = 0.9
					state.explain(fmt.Sprintf("Location matched via pattern: %s", candidate))
				}
			} else {
				explicitLocation = candidate
				state.explain(fmt.Sprintf("Explicit location mentioned: %s", candidate))
			}
		}

		// 2. delegation phrases
		if !state.Delegated && matchesAny(text, delegationPhrases) {
			state.Delegated = true
			state.explain("User delegated decision-making to assistant")
		}

		// 3. intent, last match wins across turns
		if word, ok := firstMatch(text, cancelWords); ok {
			state.Intent = IntentCancel
			state.explain(fmt.Sprintf("Intent set to cancel via keyword '%s'", word))
		} else if word, ok := firstMatch(text, modifyWords); ok {
			state.Intent = IntentModify
			state.explain(fmt.Sprintf("Intent set to modify via keyword '%s'", word))
		}

		// 4. service keyword, first match, set once
		if state.Service == "" {
			if svc, ok := firstMatch(text, Services); ok {
				state.Service = svc
				state.Confidences[FieldService] = 0.95
				state.explain(fmt.Sprintf("Service matched by keyword '%s'", svc))
			}
		}
		// refine the generic "appointment" into a specific service
		if state.Service == "appointment" {
			if matchesAny(text, facialWords) {
				state.Service = "facial"
				state.Confidences[FieldService] = 0.9
				state.explain("Mapped generic 'appointment' to specific 'facial' based on user text")
			} else if matchesAny(text, dentalWords) {
				state.Service = "dental"
				state.Confidences[FieldService] = 0.9
				state.explain("Mapped generic 'appointment' to specific 'dental' based on user text")
			}
		}

		// 5. date
		if state.Date == "" {
			if parsed, ok := timeparse.ParseDate(text, today); ok {
				state.Date = parsed
				state.Confidences[FieldDate] = 0.9
				state.explain(fmt.Sprintf("Date parsed as %s", parsed))
			}
		}

		// 6. time: exact first, then fuzzy words. Fuzzy resolution commits a
		// concrete value but keeps the token as a pending ambiguity so the
		// clarifier can still ask about it.
		if state.Time == "" {
			if value, ok := timeparse.Normalize(text); ok {
				state.Time = value
				state.Confidences[FieldTime] = 0.95
				state.explain(fmt.Sprintf("Time normalized to %s", value))
			} else {
				for _, fz := range fuzzyTimes {
					if strings.Contains(text, fz.Token) {
						state.Time = fz.Resolved
						state.Confidences[FieldTime] = 0.7
						state.Ambiguities = append(state.Ambiguities, fz.Token)
						state.explain(fmt.Sprintf("Fuzzy time '%s' resolved to %s", fz.Token, fz.Resolved))
						break
					}
				}
			}
		}

		// 7. known-city substring, set once
		if state.Location == "" {
			for _, city := range Cities {
				if strings.Contains(text, city) {
					state.Location = city
					state.Confidences[FieldLocation] = 0.9
					state.explain(fmt.Sprintf("Location matched: %s", city))
					break
				}
			}
		}
	}

	if state.Delegated {
		e.applyDelegationDefaults(ctx, state, explicitLocation, today)
	}

	e.logger.Debug("booking state extracted",
		"service", state.Service,
		"date", state.Date,
		"time", state.Time,
		"location", state.Location,
		"intent", state.Intent,
		"delegated", state.Delegated,
	)
	return state
}

// applyDelegationDefaults fills every still-unset field once the user has
// ceded the choice. Runs once, after all turns.
func (e *Extractor) applyDelegationDefaults(ctx context.Context, state *BookingState, explicitLocation string, today time.Time) {
	if state.Service == "" {
		// prefer a service that fits the spa/salon domain over the generic
		// "appointment"
		state.Service = "facial"
		state.ServiceAutoSelected = true
		state.Confidences[FieldService] = 0.6
		state.explain("Defaulted service to 'facial' due to delegation")
	}

	if state.Date == "" {
		state.Date = today.Format("2006-01-02")
		state.Confidences[FieldDate] = 0.6
		state.explain(fmt.Sprintf("Defaulted date to %s due to delegation", state.Date))
	}

	if state.Time == "" {
		state.Time, state.Confidences[FieldTime] = e.delegatedTime(ctx, state)
	}

	if state.Location == "" {
		if explicitLocation != "" {
			state.Location = explicitLocation
			state.Confidences[FieldLocation] = 0.8
			state.explain(fmt.Sprintf("Used earlier mentioned location '%s' due to delegation", explicitLocation))
		} else {
			state.Location = Cities[0]
			state.LocationAutoSelected = true
			state.Confidences[FieldLocation] = 0.5
			state.explain(fmt.Sprintf("Auto-selected location %s due to delegation (assistant-chosen)", Cities[0]))
		}
	}
}

// delegatedTime prefers the next actually-available slot for the chosen
// service/date; any lookup failure degrades to the static fallback and never
// propagates as an error.
func (e *Extractor) delegatedTime(ctx context.Context, state *BookingState) (string, float64) {
	if e.slots != nil {
		next, _, ok, err := e.slots.FindNextAvailable(ctx, state.Service, state.Date, "")
		if err != nil {
			e.logger.Warn("slot lookup failed, using static default", "error", err)
			state.explain("Defaulted time to 10:00 AM due to delegation (slot lookup failed)")
			return fallbackTime, 0.6
		}
		if ok {
			state.explain(fmt.Sprintf("Auto-selected next available slot %s for service %s", next, state.Service))
			return next, 0.75
		}
		state.explain("Defaulted time to 10:00 AM due to delegation (no available slots found)")
		return fallbackTime, 0.6
	}
	state.explain("Defaulted time to 10:00 AM due to delegation")
	return fallbackTime, 0.6
}

func matchesAny(text string, words []string) bool {
	_, ok := firstMatch(text, words)
	return ok
}

func firstMatch(text string, words []string) (string, bool) {
	for _, w := range words {
		if strings.Contains(text, w) {
			return w, true
		}
	}
	return "", false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
