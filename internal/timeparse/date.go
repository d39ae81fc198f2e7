package timeparse

import (
	"regexp"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var (
	slashDateRE = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})`)
	isoDateRE   = regexp.MustCompile(`(\d{4}-\d{1,2}-\d{1,2})`)
)

// ParseDate resolves a free-text date expression to an ISO-8601 date string
// relative to the injected reference day. Resolution order, first match wins:
// "today", "tomorrow", dd/mm/yyyy (or dd/mm/yy), yyyy-mm-dd. Malformed
// literals that fail strict parsing are a no-match, not an error.
func ParseDate(text string, today time.Time) (string, bool) {
	s := strings.ToLower(text)

	if strings.Contains(s, "today") {
		return today.Format(isoDate), true
	}
	if strings.Contains(s, "tomorrow") {
		return today.AddDate(0, 0, 1).Format(isoDate), true
	}

	if m := slashDateRE.FindStringSubmatch(s); m != nil {
		for _, layout := range []string{"2/1/2006", "2/1/06"} {
			if d, err := time.Parse(layout, m[1]); err == nil {
				return d.Format(isoDate), true
			}
		}
	}

	if m := isoDateRE.FindStringSubmatch(s); m != nil {
		if d, err := time.Parse("2006-1-2", m[1]); err == nil {
			return d.Format(isoDate), true
		}
	}

	return "", false
}
