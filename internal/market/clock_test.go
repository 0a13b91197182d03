package market

import (
	"testing"
	"time"

	"groww-trader/internal/models"
)

// ist builds an IST timestamp on Wednesday 7 Jan 2026 unless a weekday
// offset is applied.
func ist(day, hour, min int) time.Time {
	return time.Date(2026, time.January, day, hour, min, 0, 0, IndiaLocation)
}

func newTestClock() *Clock {
	return NewClock(3*time.Minute, 5*time.Minute, time.Hour)
}

func TestSessionAt(t *testing.T) {
	c := newTestClock()

	tests := []struct {
		name string
		at   time.Time
		want models.MarketSession
	}{
		{"before pre-open", ist(7, 8, 59), models.SessionClosed},
		{"pre-open start", ist(7, 9, 0), models.SessionPreOpen},
		{"just before open", ist(7, 9, 14), models.SessionPreOpen},
		{"open", ist(7, 9, 15), models.SessionOpen},
		{"midday", ist(7, 12, 30), models.SessionOpen},
		{"last minute", ist(7, 15, 29), models.SessionOpen},
		{"close", ist(7, 15, 30), models.SessionClosed},
		{"evening", ist(7, 20, 0), models.SessionClosed},
		{"saturday midday", ist(10, 12, 0), models.SessionClosed},
		{"sunday midday", ist(11, 12, 0), models.SessionClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.SessionAt(tt.at); got != tt.want {
				t.Errorf("SessionAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestIntervalAt(t *testing.T) {
	c := newTestClock()

	if got := c.IntervalAt(ist(7, 10, 0)); got != 3*time.Minute {
		t.Errorf("open interval = %v, want 3m", got)
	}
	if got := c.IntervalAt(ist(7, 9, 5)); got != 5*time.Minute {
		t.Errorf("pre-open interval = %v, want 5m", got)
	}
	if got := c.IntervalAt(ist(7, 18, 0)); got != time.Hour {
		t.Errorf("closed interval = %v, want 1h", got)
	}
}

func TestShouldMonitorAt(t *testing.T) {
	c := newTestClock()

	if !c.ShouldMonitorAt(ist(7, 10, 0)) {
		t.Error("should monitor during regular hours")
	}
	if !c.ShouldMonitorAt(ist(7, 9, 5)) {
		t.Error("should monitor during pre-open")
	}
	if c.ShouldMonitorAt(ist(7, 18, 0)) {
		t.Error("should not monitor after hours")
	}
	if c.ShouldMonitorAt(ist(10, 12, 0)) {
		t.Error("should not monitor on saturday")
	}
}

func TestNextOpenAfter(t *testing.T) {
	c := newTestClock()

	// Wednesday evening rolls to Thursday morning.
	next := c.NextOpenAfter(ist(7, 18, 0))
	want := ist(8, 9, 15)
	if !next.Equal(want) {
		t.Errorf("NextOpenAfter(wed evening) = %v, want %v", next, want)
	}

	// Friday evening skips the weekend.
	next = c.NextOpenAfter(ist(9, 18, 0))
	want = ist(12, 9, 15)
	if !next.Equal(want) {
		t.Errorf("NextOpenAfter(fri evening) = %v, want %v", next, want)
	}

	// Early morning opens the same day.
	next = c.NextOpenAfter(ist(7, 7, 0))
	want = ist(7, 9, 15)
	if !next.Equal(want) {
		t.Errorf("NextOpenAfter(wed morning) = %v, want %v", next, want)
	}
}

func TestStatusAt(t *testing.T) {
	c := newTestClock()

	status := c.StatusAt(ist(7, 10, 0))
	if !status.IsOpen || status.Session != models.SessionOpen {
		t.Errorf("status at midday = %+v, want open", status)
	}

	status = c.StatusAt(ist(10, 12, 0))
	if status.IsOpen {
		t.Error("saturday status reports open")
	}
	if status.Label != "CLOSED - Weekend" {
		t.Errorf("saturday label = %q", status.Label)
	}

	status = c.StatusAt(ist(7, 18, 0))
	if status.NextSession != "Opens tomorrow at 9:15 AM IST" {
		t.Errorf("after-hours next session = %q", status.NextSession)
	}
}

func TestInjectedNow(t *testing.T) {
	c := newTestClock()
	c.Now = func() time.Time { return ist(7, 10, 0) }

	if !c.IsOpen() {
		t.Error("IsOpen with injected midday clock = false")
	}
	if c.Interval() != 3*time.Minute {
		t.Errorf("Interval = %v, want 3m", c.Interval())
	}
}
