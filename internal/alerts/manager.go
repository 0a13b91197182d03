// Package alerts implements the alert lifecycle: creation from natural
// language commands, cancellation, and evaluation against live prices.
package alerts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"groww-trader/internal/broker"
	apperrors "groww-trader/internal/errors"
	"groww-trader/internal/market"
	"groww-trader/internal/models"
	"groww-trader/internal/notify"
	"groww-trader/internal/parser"
	"groww-trader/internal/resolver"
	"groww-trader/internal/store"
)

// Manager owns the alert collection and drives evaluation cycles.
type Manager struct {
	broker   broker.Broker
	store    store.AlertStore
	journal  *store.Journal // optional
	notifier notify.Notifier
	resolver *resolver.Resolver
	clock    *market.Clock
	logger   zerolog.Logger
}

// NewManager wires an alert manager. journal may be nil.
func NewManager(b broker.Broker, st store.AlertStore, journal *store.Journal, n notify.Notifier, clock *market.Clock, acceptanceFloor int, logger zerolog.Logger) *Manager {
	if n == nil {
		n = notify.NewNoOpNotifier()
	}
	return &Manager{
		broker:   b,
		store:    st,
		journal:  journal,
		notifier: n,
		resolver: resolver.New(b, acceptanceFloor, logger),
		clock:    clock,
		logger:   logger.With().Str("component", "alerts").Logger(),
	}
}

// CreateAlert parses a natural language command, resolves the stock
// reference to an exchange symbol, and persists a new active alert.
// Nothing is written if any stage fails.
func (m *Manager) CreateAlert(ctx context.Context, command string) (*models.PriceAlert, float64, error) {
	parsed, err := parser.Parse(command)
	if err != nil {
		return nil, 0, err
	}

	res, err := m.resolver.Resolve(ctx, parsed.RawReference, parsed.FallbackTokens)
	if err != nil {
		return nil, 0, err
	}

	alert := models.PriceAlert{
		ID:        uuid.NewString(),
		Symbol:    res.Symbol,
		AlertType: parsed.AlertType,
		Threshold: parsed.Threshold,
		Status:    models.AlertActive,
		CreatedAt: time.Now().UTC(),
	}
	if parsed.AlertType.IsPercent() {
		// Percentage alerts move relative to the price at creation time.
		basePrice := res.CurrentPrice
		alert.BasePrice = &basePrice
	}

	err = m.store.Update(ctx, func(alerts []models.PriceAlert) ([]models.PriceAlert, error) {
		return append(alerts, alert), nil
	})
	if err != nil {
		return nil, 0, err
	}

	m.record(ctx, &alert, store.EventCreated, res.CurrentPrice, alert.Describe())
	m.logger.Info().
		Str("alert_id", alert.ID).
		Str("symbol", alert.Symbol).
		Str("type", string(alert.AlertType)).
		Float64("threshold", alert.Threshold).
		Msg("Alert created")

	return &alert, res.CurrentPrice, nil
}

// ListAlerts returns persisted alerts matching the filter.
func (m *Manager) ListAlerts(ctx context.Context, f store.Filter) ([]models.PriceAlert, error) {
	alerts, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(alerts), nil
}

// CancelAlert cancels an active alert by full ID or unambiguous ID prefix.
func (m *Manager) CancelAlert(ctx context.Context, id string) (*models.PriceAlert, error) {
	var cancelled models.PriceAlert

	err := m.store.Update(ctx, func(alerts []models.PriceAlert) ([]models.PriceAlert, error) {
		idx, err := findActive(alerts, id)
		if err != nil {
			return nil, err
		}
		alerts[idx].Status = models.AlertCancelled
		cancelled = alerts[idx]
		return alerts, nil
	})
	if err != nil {
		return nil, err
	}

	m.record(ctx, &cancelled, store.EventCancelled, 0, "cancelled by user")
	m.logger.Info().Str("alert_id", cancelled.ID).Str("symbol", cancelled.Symbol).Msg("Alert cancelled")
	return &cancelled, nil
}

// findActive locates an active alert by exact ID, falling back to a
// unique prefix match.
func findActive(alerts []models.PriceAlert, id string) (int, error) {
	for i, a := range alerts {
		if a.Status == models.AlertActive && a.ID == id {
			return i, nil
		}
	}

	match := -1
	for i, a := range alerts {
		if a.Status != models.AlertActive || !strings.HasPrefix(a.ID, id) {
			continue
		}
		if match >= 0 {
			return -1, apperrors.Wrapf(apperrors.ErrAlertAmbiguous, "id prefix %q", id)
		}
		match = i
	}
	if match < 0 {
		return -1, apperrors.Wrapf(apperrors.ErrAlertNotFound, "id %q", id)
	}
	return match, nil
}

// TriggeredAlert is one alert that fired during an evaluation cycle.
type TriggeredAlert struct {
	Alert   models.PriceAlert
	Price   float64
	Message string
}

// CheckReport summarizes one evaluation cycle.
type CheckReport struct {
	Session   models.MarketSession
	Skipped   bool // market closed, no prices fetched
	Checked   int
	Triggered []TriggeredAlert
	Failed    []string // symbols whose price fetch failed
}

// CheckAll evaluates every active alert against current prices. Outside
// monitored sessions it returns immediately without touching the broker.
// Triggered alerts are persisted in a single write before any
// notification goes out.
func (m *Manager) CheckAll(ctx context.Context) (*CheckReport, error) {
	report := &CheckReport{Session: m.clock.Session()}
	if !m.clock.ShouldMonitor() {
		report.Skipped = true
		return report, nil
	}

	alerts, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	triggeredAt := time.Now().UTC()
	for i := range alerts {
		a := &alerts[i]
		if a.Status != models.AlertActive {
			continue
		}
		report.Checked++

		quote, err := m.broker.GetStockPrice(ctx, a.Symbol)
		if err != nil {
			// A single bad fetch never blocks the rest of the cycle.
			m.logger.Warn().Err(err).Str("symbol", a.Symbol).Msg("Price fetch failed, skipping alert")
			report.Failed = append(report.Failed, a.Symbol)
			continue
		}

		if !a.IsTriggered(quote.LTP) {
			continue
		}
		report.Triggered = append(report.Triggered, TriggeredAlert{
			Alert:   *a,
			Price:   quote.LTP,
			Message: a.TriggerMessage(quote.LTP),
		})
	}

	if len(report.Triggered) == 0 {
		return report, nil
	}

	// Persist all transitions in one critical section, then notify.
	// A crash after the write loses notifications, never re-arms alerts.
	fired := make(map[string]bool, len(report.Triggered))
	for _, t := range report.Triggered {
		fired[t.Alert.ID] = true
	}
	err = m.store.Update(ctx, func(current []models.PriceAlert) ([]models.PriceAlert, error) {
		for i := range current {
			if fired[current[i].ID] && current[i].Status == models.AlertActive {
				current[i].Status = models.AlertTriggered
				ts := triggeredAt
				current[i].TriggeredAt = &ts
			}
		}
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	for i := range report.Triggered {
		t := &report.Triggered[i]
		t.Alert.Status = models.AlertTriggered
		ts := triggeredAt
		t.Alert.TriggeredAt = &ts

		m.record(ctx, &t.Alert, store.EventTriggered, t.Price, t.Message)
		if err := m.notifier.SendAlertTriggered(ctx, &t.Alert, t.Price, t.Message); err != nil {
			m.logger.Warn().Err(err).Str("alert_id", t.Alert.ID).Msg("Notification failed")
		}
	}

	return report, nil
}

// Monitor runs evaluation cycles until ctx is cancelled, sleeping the
// session-appropriate interval between cycles.
func (m *Manager) Monitor(ctx context.Context) error {
	m.logger.Info().Msg("Monitoring started")
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("Monitoring stopped")
			return ctx.Err()
		case <-timer.C:
		}

		report, err := m.CheckAll(ctx)
		if err != nil {
			m.logger.Error().Err(err).Msg("Evaluation cycle failed")
		} else if !report.Skipped {
			m.logger.Debug().
				Int("checked", report.Checked).
				Int("triggered", len(report.Triggered)).
				Str("session", string(report.Session)).
				Msg("Evaluation cycle complete")
		}

		timer.Reset(m.clock.Interval())
	}
}

// History returns recent journal events, newest first. Returns nil when
// no journal is configured.
func (m *Manager) History(ctx context.Context, limit int) ([]store.AlertEvent, error) {
	if m.journal == nil {
		return nil, nil
	}
	return m.journal.History(ctx, limit)
}

func (m *Manager) record(ctx context.Context, alert *models.PriceAlert, kind store.EventKind, price float64, message string) {
	if m.journal == nil {
		return
	}
	if err := m.journal.Record(ctx, alert, kind, price, message); err != nil {
		m.logger.Warn().Err(err).Str("alert_id", alert.ID).Msg("Journal write failed")
	}
}
