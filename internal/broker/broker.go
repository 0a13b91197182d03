// Package broker provides the brokerage collaborator contract and its
// implementations.
package broker

import (
	"context"

	"groww-trader/internal/models"
)

// Broker is the collaborator contract the alert subsystem consumes.
//
// GetStockPrice fails with errors.ErrSymbolNotFound when the symbol is
// unknown. SearchStocks may return an empty slice and never fails on
// "no match".
type Broker interface {
	// Authentication
	Login(ctx context.Context) error
	IsAuthenticated() bool

	// Market data
	GetStockPrice(ctx context.Context, symbol string) (*models.StockQuote, error)
	SearchStocks(ctx context.Context, query string) ([]models.Instrument, error)
	GetMarketStatus(ctx context.Context) (*models.MarketStatus, error)
}
