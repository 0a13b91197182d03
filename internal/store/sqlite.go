package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"groww-trader/internal/models"
)

// EventKind classifies journal entries.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventTriggered EventKind = "triggered"
	EventCancelled EventKind = "cancelled"
)

// AlertEvent is a journal row recording an alert lifecycle event.
type AlertEvent struct {
	ID        int64     `json:"id"`
	AlertID   string    `json:"alert_id"`
	Symbol    string    `json:"symbol"`
	Kind      EventKind `json:"kind"`
	Price     float64   `json:"price"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal records alert lifecycle events in SQLite. It is an append-only
// history; the authoritative alert state stays in the file store.
type Journal struct {
	db *sql.DB
}

// NewJournal opens (and if needed initializes) the journal database.
func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS alert_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		alert_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		kind TEXT NOT NULL,
		price REAL,
		message TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_alert_events_alert ON alert_events(alert_id);
	CREATE INDEX IF NOT EXISTS idx_alert_events_kind ON alert_events(kind);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record appends an event for an alert.
func (j *Journal) Record(ctx context.Context, alert *models.PriceAlert, kind EventKind, price float64, message string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO alert_events (alert_id, symbol, kind, price, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		alert.ID, alert.Symbol, string(kind), price, message, time.Now().UTC())
	return err
}

// History returns the most recent events, newest first.
func (j *Journal) History(ctx context.Context, limit int) ([]AlertEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, alert_id, symbol, kind, price, message, created_at
		 FROM alert_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []AlertEvent
	for rows.Next() {
		var ev AlertEvent
		var kind string
		if err := rows.Scan(&ev.ID, &ev.AlertID, &ev.Symbol, &kind, &ev.Price, &ev.Message, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Kind = EventKind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
