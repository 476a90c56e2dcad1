package schedule

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("08:00")
	if err != nil {
		t.Fatalf("ParseWindow error: %v", err)
	}
	if w.Clock() != "08:00" {
		t.Fatalf("expected clock 08:00, got %s", w.Clock())
	}

	for _, bad := range []string{"", "8", "25:00", "08:61", "ocho:00"} {
		if _, err := ParseWindow(bad); err == nil {
			t.Fatalf("expected error for clock %q", bad)
		}
	}
}

func TestWindow_Contains(t *testing.T) {
	w, _ := ParseWindow("20:30")

	at := func(h, m int) time.Time {
		return time.Date(2024, time.January, 11, h, m, 0, 0, time.UTC)
	}

	if w.Contains(at(20, 29)) {
		t.Fatalf("before start must be outside")
	}
	if !w.Contains(at(20, 30)) {
		t.Fatalf("start must be inside")
	}
	if !w.Contains(at(21, 29)) {
		t.Fatalf("59 minutes in must be inside")
	}
	if w.Contains(at(21, 30)) {
		t.Fatalf("window is one hour, exclusive at the end")
	}
}

func TestWindowFor_Defaults(t *testing.T) {
	if WindowFor(CategoryMorning).Clock() != DefaultMorningClock {
		t.Fatalf("unexpected morning default")
	}
	if WindowFor(CategoryEvening).Clock() != DefaultEveningClock {
		t.Fatalf("unexpected evening default")
	}
}
