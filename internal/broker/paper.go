package broker

import (
	"context"
	"strings"
	"sync"

	apperrors "groww-trader/internal/errors"
	"groww-trader/internal/market"
	"groww-trader/internal/models"
)

// PaperBroker is an in-memory broker for offline use and tests. Prices are
// seeded and can be moved with SetPrice; search runs over a seeded
// instrument list.
type PaperBroker struct {
	clock *market.Clock

	mu          sync.RWMutex
	prices      map[string]float64
	instruments []models.Instrument

	priceCalls  int
	searchCalls int
}

// NewPaperBroker creates a paper broker with the given seed prices.
func NewPaperBroker(clock *market.Clock, prices map[string]float64, instruments []models.Instrument) *PaperBroker {
	p := &PaperBroker{
		clock:       clock,
		prices:      make(map[string]float64, len(prices)),
		instruments: instruments,
	}
	for sym, price := range prices {
		p.prices[strings.ToUpper(sym)] = price
	}
	return p
}

// Login always succeeds for the paper broker.
func (p *PaperBroker) Login(ctx context.Context) error { return nil }

// IsAuthenticated always reports true for the paper broker.
func (p *PaperBroker) IsAuthenticated() bool { return true }

// SetPrice moves the seeded price for a symbol.
func (p *PaperBroker) SetPrice(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[strings.ToUpper(symbol)] = price
}

// GetStockPrice returns the seeded price or errors.ErrSymbolNotFound.
func (p *PaperBroker) GetStockPrice(ctx context.Context, symbol string) (*models.StockQuote, error) {
	p.mu.Lock()
	p.priceCalls++
	price, ok := p.prices[strings.ToUpper(symbol)]
	p.mu.Unlock()

	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrSymbolNotFound, "no price data for %s", symbol)
	}
	return &models.StockQuote{
		Symbol: strings.ToUpper(symbol),
		LTP:    price,
		Close:  price,
	}, nil
}

// SearchStocks filters the seeded instrument list by symbol or name.
func (p *PaperBroker) SearchStocks(ctx context.Context, query string) ([]models.Instrument, error) {
	p.mu.Lock()
	p.searchCalls++
	p.mu.Unlock()

	upper := strings.ToUpper(strings.TrimSpace(query))
	if upper == "" {
		return nil, nil
	}

	var results []models.Instrument
	for _, inst := range p.instruments {
		if strings.Contains(strings.ToUpper(inst.TradingSymbol), upper) ||
			strings.Contains(strings.ToUpper(inst.Name), upper) {
			results = append(results, inst)
		}
	}
	return results, nil
}

// GetMarketStatus reports the session from the clock.
func (p *PaperBroker) GetMarketStatus(ctx context.Context) (*models.MarketStatus, error) {
	status := p.clock.Status()
	return &status, nil
}

// PriceCalls returns how many price lookups were made.
func (p *PaperBroker) PriceCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.priceCalls
}

// SearchCalls returns how many searches were made.
func (p *PaperBroker) SearchCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.searchCalls
}
