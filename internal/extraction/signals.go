package extraction

import "strings"

// Response styles chosen by DetectSignals.
const (
	StyleConcise  = "concise"
	StyleFormal   = "formal"
	StyleFriendly = "friendly"
)

var urgentWords = []string{"urgent", "asap", "now", "immediately", "need a", "emergency"}
var politeWords = []string{"please", "thank you", "thanks"}

// DetectSignals applies lightweight urgency/tone heuristics to a single turn
// so the surrounding application can adapt its reply style.
func DetectSignals(text string) (isUrgent bool, style string) {
	t := strings.ToLower(text)

	isUrgent = matchesAny(t, urgentWords)

	switch {
	case len(strings.Fields(t)) < 4:
		style = StyleConcise
	case matchesAny(t, politeWords):
		style = StyleFormal
	default:
		style = StyleFriendly
	}
	return isUrgent, style
}
