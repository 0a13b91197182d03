// Package models provides domain models for the alert bridge.
package models

import (
	"time"
)

// Exchange represents a stock exchange.
type Exchange string

const (
	NSE Exchange = "NSE"
	BSE Exchange = "BSE"
)

// Segment represents a market segment.
type Segment string

const (
	SegmentCash Segment = "CASH"
)

// MarketSession represents the current market session.
type MarketSession string

const (
	SessionOpen    MarketSession = "OPEN"
	SessionPreOpen MarketSession = "PRE_OPEN"
	SessionClosed  MarketSession = "CLOSED"
)

// MarketStatus describes the exchange state at a point in time.
type MarketStatus struct {
	Session     MarketSession `json:"session"`
	IsOpen      bool          `json:"is_open"`
	Label       string        `json:"label"`
	NextSession string        `json:"next_session"`
	AsOf        time.Time     `json:"as_of"`
}

// StockQuote holds price information for a single instrument.
type StockQuote struct {
	Symbol        string    `json:"symbol"`
	LTP           float64   `json:"ltp"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	Volume        int64     `json:"volume"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

// Instrument represents a tradable instrument from the instrument master.
type Instrument struct {
	TradingSymbol string `csv:"trading_symbol" json:"symbol"`
	Name          string `csv:"name" json:"name"`
	Exchange      string `csv:"exchange" json:"exchange"`
	ISIN          string `csv:"isin" json:"isin,omitempty"`
	Segment       string `csv:"segment" json:"segment,omitempty"`
}
