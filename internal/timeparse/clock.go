// Package timeparse turns free-text time and date expressions into the
// canonical forms used across the booking pipeline: "H:MM AM/PM" clock strings
// and ISO-8601 dates.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clock12RE = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clock24RE = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

// Normalize parses a time phrase into 12-hour "H:MM AM/PM" format. It handles
// inputs like "9am", "9:30 AM", "14:00" and "2 pm". The second return value is
// false when no sensible time is found; that is a normal negative result, not
// an error.
func Normalize(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	s := strings.ToLower(text)

	if m := clock12RE.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour > 12 {
			return "", false
		}
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if m[3] == "pm" && hour != 12 {
			hour += 12
		}
		if m[3] == "am" && hour == 12 {
			hour = 0
		}
		return formatClock(hour, minute), true
	}

	if m := clock24RE.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return formatClock(hour, minute), true
	}

	return "", false
}

// formatClock renders a 24-hour (hour, minute) pair as "H:MM AM/PM" with the
// leading zero stripped from the hour.
func formatClock(hour, minute int) string {
	period := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		display = hour - 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}
