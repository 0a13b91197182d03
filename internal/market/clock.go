// Package market provides the exchange session clock for Indian markets.
package market

import (
	"fmt"
	"time"

	"groww-trader/internal/models"
)

// IndiaLocation is the timezone for Indian markets.
var IndiaLocation *time.Location

func init() {
	var err error
	IndiaLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback to UTC+5:30
		IndiaLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Session boundaries in minutes from midnight IST.
const (
	preOpenStart = 9 * 60      // 9:00
	marketOpen   = 9*60 + 15   // 9:15
	marketClose  = 15*60 + 30  // 15:30
)

// Clock reports market sessions and paces the alert monitor.
// Now is injectable for tests; the zero value is usable with defaults.
type Clock struct {
	Now             func() time.Time
	OpenInterval    time.Duration
	PreOpenInterval time.Duration
	ClosedInterval  time.Duration
}

// NewClock creates a clock with the given monitoring intervals.
func NewClock(open, preOpen, closed time.Duration) *Clock {
	return &Clock{
		Now:             time.Now,
		OpenInterval:    open,
		PreOpenInterval: preOpen,
		ClosedInterval:  closed,
	}
}

func (c *Clock) now() time.Time {
	if c.Now != nil {
		return c.Now().In(IndiaLocation)
	}
	return time.Now().In(IndiaLocation)
}

// SessionAt returns the market session for the given time.
func (c *Clock) SessionAt(t time.Time) models.MarketSession {
	t = t.In(IndiaLocation)

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return models.SessionClosed
	}

	minutes := t.Hour()*60 + t.Minute()

	if minutes >= preOpenStart && minutes < marketOpen {
		return models.SessionPreOpen
	}
	if minutes >= marketOpen && minutes < marketClose {
		return models.SessionOpen
	}

	return models.SessionClosed
}

// Session returns the current market session.
func (c *Clock) Session() models.MarketSession {
	return c.SessionAt(c.now())
}

// IsOpen returns true if the market is in regular trading hours.
func (c *Clock) IsOpen() bool {
	return c.Session() == models.SessionOpen
}

// ShouldMonitorAt reports whether alerts should be evaluated at the given
// time. Evaluation runs during regular hours and pre-open.
func (c *Clock) ShouldMonitorAt(t time.Time) bool {
	session := c.SessionAt(t)
	return session == models.SessionOpen || session == models.SessionPreOpen
}

// ShouldMonitor reports whether alerts should be evaluated now.
func (c *Clock) ShouldMonitor() bool {
	return c.ShouldMonitorAt(c.now())
}

// IntervalAt returns the monitoring interval appropriate for the given time.
func (c *Clock) IntervalAt(t time.Time) time.Duration {
	switch c.SessionAt(t) {
	case models.SessionOpen:
		return c.OpenInterval
	case models.SessionPreOpen:
		return c.PreOpenInterval
	default:
		return c.ClosedInterval
	}
}

// Interval returns the monitoring interval appropriate for the current session.
func (c *Clock) Interval() time.Duration {
	return c.IntervalAt(c.now())
}

// NextOpenAfter returns the next market opening time after t.
func (c *Clock) NextOpenAfter(t time.Time) time.Time {
	t = t.In(IndiaLocation)

	next := time.Date(t.Year(), t.Month(), t.Day(), 9, 15, 0, 0, IndiaLocation)
	if !t.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}

	return next
}

// StatusAt builds a full market status report for the given time.
func (c *Clock) StatusAt(t time.Time) models.MarketStatus {
	t = t.In(IndiaLocation)
	session := c.SessionAt(t)

	var label, nextSession string
	switch session {
	case models.SessionOpen:
		label = "OPEN - Regular Trading"
		nextSession = "Closes today at 3:30 PM IST"
	case models.SessionPreOpen:
		label = "PRE-OPEN"
		nextSession = "Opens today at 9:15 AM IST"
	default:
		if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			label = "CLOSED - Weekend"
		} else {
			label = "CLOSED - After Hours"
		}
		nextSession = formatNextOpen(t, c.NextOpenAfter(t))
	}

	return models.MarketStatus{
		Session:     session,
		IsOpen:      session == models.SessionOpen,
		Label:       label,
		NextSession: nextSession,
		AsOf:        t,
	}
}

// Status builds a full market status report for the current time.
func (c *Clock) Status() models.MarketStatus {
	return c.StatusAt(c.now())
}

func formatNextOpen(now, next time.Time) string {
	tomorrow := now.AddDate(0, 0, 1)
	switch {
	case sameDay(next, now):
		return "Opens today at 9:15 AM IST"
	case sameDay(next, tomorrow):
		return "Opens tomorrow at 9:15 AM IST"
	default:
		return fmt.Sprintf("Opens %s at 9:15 AM IST", next.Weekday())
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
