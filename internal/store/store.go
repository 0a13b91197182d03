// Package store provides alert persistence.
//
// The alert collection lives in a single flat JSON file. All access follows
// one discipline: load the entire state, mutate in memory, write the entire
// state back, as a single critical section. Callers never hold a stale copy
// across polling cycles.
package store

import (
	"context"

	"groww-trader/internal/models"
)

// AlertStore owns the persisted alert collection.
type AlertStore interface {
	// Load returns all persisted alerts.
	Load(ctx context.Context) ([]models.PriceAlert, error)

	// Update runs fn inside the store's critical section. fn receives the
	// current collection and returns the collection to persist; the write
	// is durable before Update returns. If fn returns an error nothing is
	// written.
	Update(ctx context.Context, fn func(alerts []models.PriceAlert) ([]models.PriceAlert, error)) error
}

// Filter selects alerts when listing.
type Filter struct {
	Symbol string
	Status models.AlertStatus
}

// Apply returns the alerts matching the filter.
func (f Filter) Apply(alerts []models.PriceAlert) []models.PriceAlert {
	var out []models.PriceAlert
	for _, a := range alerts {
		if f.Symbol != "" && a.Symbol != f.Symbol {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	return out
}
