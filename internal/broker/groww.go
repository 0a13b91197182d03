package broker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gocarina/gocsv"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"

	apperrors "groww-trader/internal/errors"
	"groww-trader/internal/market"
	"groww-trader/internal/models"
	"groww-trader/pkg/utils"
)

const (
	growwAPIBase        = "https://api.groww.in/v1"
	growwInstrumentsURL = "https://growwapi-assets.groww.in/instruments/instrument.csv"

	searchResultLimit  = 10
	instrumentCacheTTL = 24 * time.Hour
)

// GrowwConfig holds Groww API credentials.
type GrowwConfig struct {
	APIKey     string
	APISecret  string
	TOTPSecret string
}

// GrowwBroker implements Broker against the Groww trading API.
type GrowwBroker struct {
	cfg     GrowwConfig
	client  *resty.Client
	clock   *market.Clock
	logger  zerolog.Logger
	breaker *quoteBreaker

	mu          sync.RWMutex
	accessToken string

	instMu        sync.RWMutex
	instruments   []models.Instrument
	instFetchedAt time.Time
}

// NewGrowwBroker creates a Groww API client.
func NewGrowwBroker(cfg GrowwConfig, clock *market.Clock, logger zerolog.Logger) *GrowwBroker {
	client := resty.New().
		SetBaseURL(growwAPIBase).
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "groww-trader/0.1")

	return &GrowwBroker{
		cfg:     cfg,
		client:  client,
		clock:   clock,
		logger:  logger,
		breaker: newQuoteBreaker(5, 30*time.Second),
	}
}

// tokenResponse is the access-token exchange response.
type tokenResponse struct {
	Token string `json:"token"`
}

// quoteResponse is the live quote response envelope.
type quoteResponse struct {
	Status  string `json:"status"`
	Payload struct {
		LastPrice     float64 `json:"last_price"`
		Volume        int64   `json:"volume"`
		DayChange     float64 `json:"day_change"`
		DayChangePerc float64 `json:"day_change_perc"`
		OHLC          struct {
			Open  float64 `json:"open"`
			High  float64 `json:"high"`
			Low   float64 `json:"low"`
			Close float64 `json:"close"`
		} `json:"ohlc"`
	} `json:"payload"`
}

// Login exchanges the API key plus a fresh TOTP code for an access token.
func (g *GrowwBroker) Login(ctx context.Context) error {
	if g.cfg.APIKey == "" || g.cfg.TOTPSecret == "" {
		return apperrors.ErrNotAuthenticated
	}

	code, err := totp.GenerateCode(g.cfg.TOTPSecret, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "generating TOTP code")
	}

	// Transport errors and 5xx responses are retried; an auth rejection is
	// final and falls through to the status check below.
	var out tokenResponse
	var resp *resty.Response
	err = utils.Retry(ctx, utils.DefaultRetryConfig(), func() error {
		var reqErr error
		resp, reqErr = g.client.R().
			SetContext(ctx).
			SetBody(map[string]string{
				"key_type": "totp",
				"totp":     code,
			}).
			SetHeader("Authorization", "Bearer "+g.cfg.APIKey).
			SetResult(&out).
			Post("/token/api/access")
		if reqErr != nil {
			return reqErr
		}
		if resp.StatusCode() >= 500 {
			return fmt.Errorf("token endpoint returned status %d", resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		return apperrors.NewBrokerError("LOGIN", "token exchange failed", err)
	}
	if resp.IsError() || out.Token == "" {
		return apperrors.NewBrokerError("LOGIN",
			fmt.Sprintf("token exchange returned status %d", resp.StatusCode()), apperrors.ErrNotAuthenticated)
	}

	g.mu.Lock()
	g.accessToken = out.Token
	g.mu.Unlock()

	g.logger.Info().Msg("Groww session established")
	return nil
}

// IsAuthenticated reports whether an access token is held.
func (g *GrowwBroker) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.accessToken != ""
}

func (g *GrowwBroker) authHeader() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return "Bearer " + g.accessToken
}

// GetStockPrice fetches the live quote for an NSE cash symbol.
// Unknown symbols fail with errors.ErrSymbolNotFound.
func (g *GrowwBroker) GetStockPrice(ctx context.Context, symbol string) (*models.StockQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.ErrSymbolNotFound
	}
	if err := g.breaker.allow(); err != nil {
		return nil, err
	}

	var out quoteResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", g.authHeader()).
		SetQueryParams(map[string]string{
			"exchange":       string(models.NSE),
			"segment":        string(models.SegmentCash),
			"trading_symbol": symbol,
		}).
		SetResult(&out).
		Get("/live-data/quote")
	if err != nil {
		g.breaker.recordFailure()
		return nil, apperrors.NewBrokerError("QUOTE", "quote request failed", err)
	}
	if resp.StatusCode() >= 500 {
		g.breaker.recordFailure()
		return nil, apperrors.NewBrokerError("QUOTE",
			fmt.Sprintf("quote returned status %d for %s", resp.StatusCode(), symbol), nil)
	}
	g.breaker.recordSuccess()
	if resp.StatusCode() == 404 || (resp.IsSuccess() && out.Payload.LastPrice == 0) {
		return nil, apperrors.Wrapf(apperrors.ErrSymbolNotFound, "no price data for %s", symbol)
	}
	if resp.IsError() {
		return nil, apperrors.NewBrokerError("QUOTE",
			fmt.Sprintf("quote returned status %d for %s", resp.StatusCode(), symbol), nil)
	}

	return &models.StockQuote{
		Symbol:        symbol,
		LTP:           out.Payload.LastPrice,
		Open:          out.Payload.OHLC.Open,
		High:          out.Payload.OHLC.High,
		Low:           out.Payload.OHLC.Low,
		Close:         out.Payload.OHLC.Close,
		Volume:        out.Payload.Volume,
		Change:        out.Payload.DayChange,
		ChangePercent: out.Payload.DayChangePerc,
		Timestamp:     time.Now(),
	}, nil
}

// SearchStocks filters the cached instrument master by symbol or name.
// No match is an empty slice, never an error.
func (g *GrowwBroker) SearchStocks(ctx context.Context, query string) ([]models.Instrument, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	instruments, err := g.loadInstruments(ctx)
	if err != nil {
		return nil, err
	}

	upper := strings.ToUpper(query)
	var results []models.Instrument
	for _, inst := range instruments {
		if !strings.Contains(strings.ToUpper(inst.TradingSymbol), upper) &&
			!strings.Contains(strings.ToUpper(inst.Name), upper) {
			continue
		}
		results = append(results, inst)
		if len(results) >= searchResultLimit {
			break
		}
	}
	return results, nil
}

// loadInstruments downloads and caches the NSE cash instrument master.
func (g *GrowwBroker) loadInstruments(ctx context.Context) ([]models.Instrument, error) {
	g.instMu.RLock()
	if g.instruments != nil && time.Since(g.instFetchedAt) < instrumentCacheTTL {
		cached := g.instruments
		g.instMu.RUnlock()
		return cached, nil
	}
	g.instMu.RUnlock()

	resp, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() (*resty.Response, error) {
		r, err := g.client.R().
			SetContext(ctx).
			Get(growwInstrumentsURL)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("instrument master returned status %d", r.StatusCode())
		}
		return r, nil
	})
	if err != nil {
		return nil, apperrors.NewBrokerError("INSTRUMENTS", "instrument master download failed", err)
	}

	var all []models.Instrument
	if err := gocsv.UnmarshalBytes(resp.Body(), &all); err != nil {
		return nil, apperrors.NewBrokerError("INSTRUMENTS", "instrument master parse failed", err)
	}

	// Keep NSE cash instruments only; that is all the alert subsystem prices.
	filtered := make([]models.Instrument, 0, len(all))
	for _, inst := range all {
		if inst.Exchange != string(models.NSE) {
			continue
		}
		if inst.Segment != "" && inst.Segment != string(models.SegmentCash) {
			continue
		}
		if inst.Name == "" {
			inst.Name = inst.TradingSymbol
		}
		filtered = append(filtered, inst)
	}

	g.instMu.Lock()
	g.instruments = filtered
	g.instFetchedAt = time.Now()
	g.instMu.Unlock()

	g.logger.Debug().Int("count", len(filtered)).Msg("instrument master refreshed")
	return filtered, nil
}

// GetMarketStatus reports the exchange session from the market clock.
func (g *GrowwBroker) GetMarketStatus(ctx context.Context) (*models.MarketStatus, error) {
	status := g.clock.Status()
	return &status, nil
}
