package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	apperrors "groww-trader/internal/errors"
	"groww-trader/internal/models"
)

// stubBroker serves canned search results and prices so resolution
// strategies can be exercised one at a time.
type stubBroker struct {
	prices  map[string]float64
	results map[string][]models.Instrument
}

func (s *stubBroker) Login(ctx context.Context) error { return nil }
func (s *stubBroker) IsAuthenticated() bool           { return true }

func (s *stubBroker) GetStockPrice(ctx context.Context, symbol string) (*models.StockQuote, error) {
	price, ok := s.prices[strings.ToUpper(symbol)]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrSymbolNotFound, "no price data for %s", symbol)
	}
	return &models.StockQuote{Symbol: strings.ToUpper(symbol), LTP: price}, nil
}

func (s *stubBroker) SearchStocks(ctx context.Context, query string) ([]models.Instrument, error) {
	return s.results[strings.ToLower(query)], nil
}

func (s *stubBroker) GetMarketStatus(ctx context.Context) (*models.MarketStatus, error) {
	return &models.MarketStatus{}, nil
}

func inst(symbol, name string) models.Instrument {
	return models.Instrument{TradingSymbol: symbol, Name: name, Exchange: "NSE"}
}

func newTestResolver(b *stubBroker) *Resolver {
	return New(b, DefaultAcceptanceFloor, zerolog.Nop())
}

func TestResolveDirectSymbol(t *testing.T) {
	b := &stubBroker{prices: map[string]float64{"RELIANCE": 2450.5}}

	res, err := newTestResolver(b).Resolve(context.Background(), "reliance", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Symbol != "RELIANCE" {
		t.Errorf("symbol = %q, want RELIANCE", res.Symbol)
	}
	if res.CurrentPrice != 2450.5 {
		t.Errorf("price = %v, want 2450.5", res.CurrentPrice)
	}
}

func TestResolveFullPhraseSearch(t *testing.T) {
	b := &stubBroker{
		prices: map[string]float64{"SUZLON": 65.4},
		results: map[string][]models.Instrument{
			"suzlon energy": {inst("SUZLON", "Suzlon Energy Limited")},
		},
	}

	res, err := newTestResolver(b).Resolve(context.Background(), "suzlon energy", []string{"suzlon", "energy"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Symbol != "SUZLON" {
		t.Errorf("symbol = %q, want SUZLON", res.Symbol)
	}
	if res.CurrentPrice != 65.4 {
		t.Errorf("price = %v, want 65.4", res.CurrentPrice)
	}
}

func TestResolveFallsBackToTokenSearch(t *testing.T) {
	// The full phrase finds nothing; the longest token does.
	b := &stubBroker{
		prices: map[string]float64{"SUZLON": 65.4},
		results: map[string][]models.Instrument{
			"suzlon": {inst("SUZLON", "Suzlon Energy Limited")},
		},
	}

	res, err := newTestResolver(b).Resolve(context.Background(), "suzlon power", []string{"suzlon", "power"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Symbol != "SUZLON" {
		t.Errorf("symbol = %q, want SUZLON", res.Symbol)
	}
}

func TestResolveRejectsBelowFloor(t *testing.T) {
	// Only a weak token-overlap match exists; it must surface as a
	// suggestion, never as an accepted resolution.
	b := &stubBroker{
		prices: map[string]float64{"GREENPOWER": 12.0},
		results: map[string][]models.Instrument{
			"green power": {inst("GREENPOWER", "Orient Green Power Company")},
		},
	}
	r := New(b, 60, zerolog.Nop())

	_, err := r.Resolve(context.Background(), "green power", nil)
	if err == nil {
		t.Fatal("Resolve succeeded, want ResolutionError")
	}
	var resErr *apperrors.ResolutionError
	if !apperrors.As(err, &resErr) {
		t.Fatalf("error type = %T, want *ResolutionError", err)
	}
	if len(resErr.Suggestions) == 0 {
		t.Fatal("ResolutionError carries no suggestions")
	}
	if resErr.Suggestions[0].Symbol != "GREENPOWER" {
		t.Errorf("suggestion = %q, want GREENPOWER", resErr.Suggestions[0].Symbol)
	}
}

func TestResolveRevalidationFailureIsHard(t *testing.T) {
	// Search claims a symbol that pricing rejects. The contradiction must
	// be reported, not silently retried into a worse match.
	b := &stubBroker{
		prices: map[string]float64{},
		results: map[string][]models.Instrument{
			"ghost": {inst("GHOST", "Ghost Industries")},
		},
	}

	_, err := newTestResolver(b).Resolve(context.Background(), "ghost", nil)
	if err == nil {
		t.Fatal("Resolve succeeded, want error")
	}
	if !strings.Contains(err.Error(), "price lookup rejected") {
		t.Errorf("error = %v, want re-validation failure", err)
	}
}

func TestResolveErrorNamesOriginalReference(t *testing.T) {
	// Re-validation fails on a derived token search. The error must still
	// quote what the user typed, not the internal token.
	b := &stubBroker{
		prices: map[string]float64{},
		results: map[string][]models.Instrument{
			"industries": {inst("GHOST", "Ghost Industries")},
		},
	}

	ref := "ghost industries co"
	_, err := newTestResolver(b).Resolve(context.Background(), ref, []string{"ghost", "industries", "co"})
	if err == nil {
		t.Fatal("Resolve succeeded, want error")
	}
	var resErr *apperrors.ResolutionError
	if !apperrors.As(err, &resErr) {
		t.Fatalf("error type = %T, want *ResolutionError", err)
	}
	if resErr.Query != ref {
		t.Errorf("error query = %q, want %q", resErr.Query, ref)
	}
}

func TestRankOrdering(t *testing.T) {
	results := []models.Instrument{
		inst("SUZLON-BE", "Suzlon Energy Limited BE"),
		inst("SUZLON", "Suzlon Energy Limited"),
		inst("SWSOLAR", "Sterling and Wilson Renewable Energy"),
	}

	candidates := Rank("SUZLON", results)
	if candidates[0].Symbol != "SUZLON" {
		t.Fatalf("top candidate = %q, want SUZLON", candidates[0].Symbol)
	}
	if candidates[0].Score != 100 {
		t.Errorf("exact symbol match score = %d, want 100", candidates[0].Score)
	}
	if candidates[1].Symbol != "SUZLON-BE" {
		t.Errorf("second candidate = %q, want SUZLON-BE", candidates[1].Symbol)
	}
}

func TestScoreTiers(t *testing.T) {
	tests := []struct {
		query  string
		symbol string
		name   string
		score  int
	}{
		{"SUZLON", "SUZLON", "Suzlon Energy Limited", 100},
		{"SUZLON ENERGY LIMITED", "SUZLON", "Suzlon Energy Limited", 90},
		{"SUZ", "SUZLON", "Suzlon Energy Limited", 80},
		{"SUZLON ENERGY", "SUZLON", "Suzlon Energy Limited", 70},
		{"ZLO", "SUZLON", "Suzlon Energy Limited", 60},
		{"ENERGY LIM", "SUZLON", "Suzlon Energy Limited", 50},
		{"GREEN ENERGY", "SUZLON", "Suzlon Energy Limited", 30},
		{"TATA", "SUZLON", "Suzlon Energy Limited", 0},
	}

	for _, tt := range tests {
		got := score(tt.query, strings.ToUpper(tt.symbol), strings.ToUpper(tt.name))
		if got != tt.score {
			t.Errorf("score(%q, %q, %q) = %d, want %d", tt.query, tt.symbol, tt.name, got, tt.score)
		}
	}
}

func TestRankTieBreaksShorterSymbol(t *testing.T) {
	results := []models.Instrument{
		inst("TATAMOTORS", "Tata Motors Limited"),
		inst("TATAPOWER", "Tata Power Company"),
		inst("TATACHEM", "Tata Chemicals Limited"),
	}

	candidates := Rank("TATA", results)
	for i := 1; i < len(candidates); i++ {
		if candidates[i-1].Score == candidates[i].Score &&
			len(candidates[i-1].Symbol) > len(candidates[i].Symbol) {
			t.Errorf("tie not broken toward shorter symbol: %q before %q",
				candidates[i-1].Symbol, candidates[i].Symbol)
		}
	}
}
