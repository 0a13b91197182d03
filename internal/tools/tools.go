// Package tools exposes alert operations as assistant-callable tools.
// Each tool returns a human-readable message suitable for relaying to a
// chat user verbatim, alongside structured data for programmatic callers.
package tools

import (
	"context"
	"fmt"
	"strings"

	"groww-trader/internal/alerts"
	"groww-trader/internal/market"
	"groww-trader/internal/models"
	"groww-trader/internal/store"
	"groww-trader/pkg/utils"
)

// Toolset binds the alert tools to a manager and a market clock.
type Toolset struct {
	manager *alerts.Manager
	clock   *market.Clock
}

// New creates a toolset.
func New(manager *alerts.Manager, clock *market.Clock) *Toolset {
	return &Toolset{manager: manager, clock: clock}
}

// SetPriceAlert creates an alert from a natural language command.
func (t *Toolset) SetPriceAlert(ctx context.Context, command string) (string, *models.PriceAlert, error) {
	alert, currentPrice, err := t.manager.CreateAlert(ctx, command)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Alert set for %s: %s.\n", alert.Symbol, alert.Describe())
	fmt.Fprintf(&b, "Current price: %s.", utils.FormatIndianCurrency(currentPrice))
	if alert.BasePrice != nil {
		fmt.Fprintf(&b, " Base price for the move: %s.", utils.FormatIndianCurrency(*alert.BasePrice))
	}
	fmt.Fprintf(&b, "\nAlert ID: %s", alert.ID)
	return b.String(), alert, nil
}

// ListAlerts describes the persisted alerts matching the filter.
func (t *Toolset) ListAlerts(ctx context.Context, f store.Filter) (string, []models.PriceAlert, error) {
	list, err := t.manager.ListAlerts(ctx, f)
	if err != nil {
		return "", nil, err
	}
	if len(list) == 0 {
		return "No alerts found.", nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d alert(s):\n", len(list))
	for _, a := range list {
		fmt.Fprintf(&b, "  [%s] %s %s (%s)", a.ShortID(), a.Symbol, a.Describe(), a.Status)
		if a.TriggeredAt != nil {
			fmt.Fprintf(&b, " at %s", a.TriggeredAt.Format("02-Jan-2006 15:04"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), list, nil
}

// CancelAlert cancels an alert by ID or unambiguous ID prefix.
func (t *Toolset) CancelAlert(ctx context.Context, id string) (string, *models.PriceAlert, error) {
	alert, err := t.manager.CancelAlert(ctx, id)
	if err != nil {
		return "", nil, err
	}
	msg := fmt.Sprintf("Cancelled alert for %s: %s.", alert.Symbol, alert.Describe())
	return msg, alert, nil
}

// CheckAlerts runs one evaluation cycle and describes the outcome.
func (t *Toolset) CheckAlerts(ctx context.Context) (string, *alerts.CheckReport, error) {
	report, err := t.manager.CheckAll(ctx)
	if err != nil {
		return "", nil, err
	}

	if report.Skipped {
		status := t.clock.Status()
		return fmt.Sprintf("Market is closed (%s). No prices were fetched.", status.NextSession), report, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Checked %d active alert(s), %d triggered.", report.Checked, len(report.Triggered))
	for _, trig := range report.Triggered {
		fmt.Fprintf(&b, "\n  %s", trig.Message)
	}
	if len(report.Failed) > 0 {
		fmt.Fprintf(&b, "\nPrice fetch failed for: %s.", strings.Join(report.Failed, ", "))
	}
	return b.String(), report, nil
}

// MonitoringStatus describes the current market session and the
// polling interval the monitor would use right now.
func (t *Toolset) MonitoringStatus(ctx context.Context) (string, *models.MarketStatus, error) {
	status := t.clock.Status()

	active, err := t.manager.ListAlerts(ctx, store.Filter{Status: models.AlertActive})
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s. %s.", sessionLabel(status.Session), status.NextSession)
	fmt.Fprintf(&b, "\nPolling interval: %s. Active alerts: %d.", t.clock.Interval(), len(active))
	return b.String(), &status, nil
}

func sessionLabel(s models.MarketSession) string {
	switch s {
	case models.SessionOpen:
		return "Market is open"
	case models.SessionPreOpen:
		return "Market is in pre-open session"
	default:
		return "Market is closed"
	}
}
