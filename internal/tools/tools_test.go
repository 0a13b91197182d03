package tools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"groww-trader/internal/alerts"
	"groww-trader/internal/broker"
	"groww-trader/internal/market"
	"groww-trader/internal/models"
	"groww-trader/internal/store"
)

func newTestToolset(t *testing.T) (*Toolset, *broker.PaperBroker) {
	t.Helper()

	clock := market.NewClock(3*time.Minute, 5*time.Minute, time.Hour)
	clock.Now = func() time.Time {
		// Wednesday 7 Jan 2026, 10:00 IST: market open.
		return time.Date(2026, time.January, 7, 10, 0, 0, 0, market.IndiaLocation)
	}

	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "alerts.json"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	pb := broker.NewPaperBroker(clock, map[string]float64{"SUZLON": 65.4}, []models.Instrument{
		{TradingSymbol: "SUZLON", Name: "Suzlon Energy Limited", Exchange: "NSE"},
	})
	mgr := alerts.NewManager(pb, fs, nil, nil, clock, 0, zerolog.Nop())
	return New(mgr, clock), pb
}

func TestSetPriceAlertMessage(t *testing.T) {
	ts, _ := newTestToolset(t)

	msg, alert, err := ts.SetPriceAlert(context.Background(), "Set alert for Suzlon Energy if price goes above 67.3")
	if err != nil {
		t.Fatalf("SetPriceAlert failed: %v", err)
	}
	if alert == nil || alert.Symbol != "SUZLON" {
		t.Fatalf("alert = %+v, want SUZLON", alert)
	}
	for _, want := range []string{"SUZLON", "₹65.40", alert.ID} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestListAlertsMessage(t *testing.T) {
	ts, _ := newTestToolset(t)
	ctx := context.Background()

	msg, list, err := ts.ListAlerts(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if msg != "No alerts found." || list != nil {
		t.Errorf("empty list message = %q", msg)
	}

	if _, _, err := ts.SetPriceAlert(ctx, "Set alert for SUZLON if price goes above 67.3"); err != nil {
		t.Fatalf("SetPriceAlert failed: %v", err)
	}

	msg, list, err = ts.ListAlerts(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("listed %d alerts, want 1", len(list))
	}
	if !strings.Contains(msg, "SUZLON") || !strings.Contains(msg, "active") {
		t.Errorf("list message = %q", msg)
	}
}

func TestCancelAlertMessage(t *testing.T) {
	ts, _ := newTestToolset(t)
	ctx := context.Background()

	_, alert, err := ts.SetPriceAlert(ctx, "Set alert for SUZLON if price goes above 67.3")
	if err != nil {
		t.Fatalf("SetPriceAlert failed: %v", err)
	}

	msg, cancelled, err := ts.CancelAlert(ctx, alert.ID)
	if err != nil {
		t.Fatalf("CancelAlert failed: %v", err)
	}
	if cancelled.Status != models.AlertCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if !strings.Contains(msg, "Cancelled") || !strings.Contains(msg, "SUZLON") {
		t.Errorf("cancel message = %q", msg)
	}
}

func TestCheckAlertsTriggerMessage(t *testing.T) {
	ts, pb := newTestToolset(t)
	ctx := context.Background()

	if _, _, err := ts.SetPriceAlert(ctx, "Set alert for SUZLON if price goes above 67.3"); err != nil {
		t.Fatalf("SetPriceAlert failed: %v", err)
	}

	pb.SetPrice("SUZLON", 68)
	msg, report, err := ts.CheckAlerts(ctx)
	if err != nil {
		t.Fatalf("CheckAlerts failed: %v", err)
	}
	if len(report.Triggered) != 1 {
		t.Fatalf("triggered = %d, want 1", len(report.Triggered))
	}
	if !strings.Contains(msg, "1 triggered") || !strings.Contains(msg, "SUZLON") {
		t.Errorf("check message = %q", msg)
	}
}

func TestMonitoringStatusMessage(t *testing.T) {
	ts, _ := newTestToolset(t)

	msg, status, err := ts.MonitoringStatus(context.Background())
	if err != nil {
		t.Fatalf("MonitoringStatus failed: %v", err)
	}
	if status.Session != models.SessionOpen {
		t.Errorf("session = %s, want OPEN", status.Session)
	}
	if !strings.Contains(msg, "Market is open") || !strings.Contains(msg, "3m0s") {
		t.Errorf("status message = %q", msg)
	}
}
