package timeparse

import "testing"

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"9am", "9:00 AM", true},
		{"9:30 AM", "9:30 AM", true},
		{"2 pm", "2:00 PM", true},
		{"meet me at 14:30", "2:30 PM", true},
		{"9:00", "9:00 AM", true},
		{"12pm", "12:00 PM", true},
		{"12am", "12:00 AM", true},
		{"00:15", "12:15 AM", true},
		{"23:59", "11:59 PM", true},
		{"sometime soon", "", false},
		{"", "", false},
		{"see you in the morning", "", false},
	}
	for _, tc := range cases {
		got, ok := Normalize(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeRejectsImpossibleMeridiemHour(t *testing.T) {
	if got, ok := Normalize("13 pm"); ok {
		t.Fatalf("expected no match for 13 pm, got %q", got)
	}
}
