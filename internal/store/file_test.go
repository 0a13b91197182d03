package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "groww-trader/internal/errors"
	"groww-trader/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "alerts.json"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return s
}

func sampleAlert(id, symbol string) models.PriceAlert {
	return models.PriceAlert{
		ID:        id,
		Symbol:    symbol,
		AlertType: models.PriceAbove,
		Threshold: 100,
		Status:    models.AlertActive,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	alerts, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("missing file loaded %d alerts, want 0", len(alerts))
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := 65.4
	triggered := time.Now().UTC().Truncate(time.Second)
	want := models.PriceAlert{
		ID:          "a1",
		Symbol:      "SUZLON",
		AlertType:   models.PercentUp,
		Threshold:   5,
		BasePrice:   &base,
		Status:      models.AlertTriggered,
		CreatedAt:   triggered.Add(-time.Hour),
		TriggeredAt: &triggered,
	}

	err := s.Update(ctx, func(alerts []models.PriceAlert) ([]models.PriceAlert, error) {
		return append(alerts, want), nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d alerts, want 1", len(got))
	}
	a := got[0]
	if a.ID != want.ID || a.Symbol != want.Symbol || a.AlertType != want.AlertType ||
		a.Threshold != want.Threshold || a.Status != want.Status {
		t.Errorf("round trip mismatch: %+v", a)
	}
	if a.BasePrice == nil || *a.BasePrice != base {
		t.Errorf("base price = %v, want %v", a.BasePrice, base)
	}
	if a.TriggeredAt == nil || !a.TriggeredAt.Equal(triggered) {
		t.Errorf("triggered at = %v, want %v", a.TriggeredAt, triggered)
	}
}

func TestUpdateFnErrorWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Update(ctx, func(alerts []models.PriceAlert) ([]models.PriceAlert, error) {
		return append(alerts, sampleAlert("a1", "TCS")), nil
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	boom := errors.New("boom")
	err := s.Update(ctx, func(alerts []models.PriceAlert) ([]models.PriceAlert, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want boom", err)
	}

	alerts, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("failed update changed the store: %d alerts", len(alerts))
	}
}

func TestCorruptFileError(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load(context.Background())
	if err == nil {
		t.Fatal("Load of corrupt file succeeded")
	}
	if !apperrors.Is(err, apperrors.ErrStoreCorrupt) {
		t.Errorf("error = %v, want ErrStoreCorrupt", err)
	}
}

func TestFileLayoutIsArray(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, func(alerts []models.PriceAlert) ([]models.PriceAlert, error) {
		return append(alerts, sampleAlert("a1", "TCS")), nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("file is not a top-level JSON array: %v", err)
	}
	for _, key := range []string{"id", "symbol", "alert_type", "threshold", "base_price", "status", "created_at", "triggered_at"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("alert object missing %q key", key)
		}
	}
}

func TestFilterApply(t *testing.T) {
	alerts := []models.PriceAlert{
		sampleAlert("a1", "TCS"),
		sampleAlert("a2", "SUZLON"),
		{ID: "a3", Symbol: "TCS", Status: models.AlertCancelled},
	}

	got := Filter{Symbol: "TCS"}.Apply(alerts)
	if len(got) != 2 {
		t.Errorf("symbol filter matched %d, want 2", len(got))
	}

	got = Filter{Symbol: "TCS", Status: models.AlertActive}.Apply(alerts)
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("combined filter = %+v, want [a1]", got)
	}

	got = Filter{}.Apply(alerts)
	if len(got) != 3 {
		t.Errorf("empty filter matched %d, want 3", len(got))
	}
}
