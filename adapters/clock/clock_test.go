package clock

import (
	"testing"
	"time"
)

func TestFake_AdvanceCrossesDateBoundary(t *testing.T) {
	start := time.Date(2025, 10, 15, 23, 30, 0, 0, time.UTC)
	f := NewFake(start)

	if !f.Now().Equal(start) {
		t.Errorf("Now = %v, want %v", f.Now(), start)
	}

	f.Advance(time.Hour)
	if got := f.Now().UTC().Format("2006-01-02"); got != "2025-10-16" {
		t.Errorf("date after advance = %s, want 2025-10-16", got)
	}
}

func TestReal_NowIsCurrent(t *testing.T) {
	before := time.Now()
	got := Real{}.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Real.Now %v outside [%v, %v]", got, before, after)
	}
}
