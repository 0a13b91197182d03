package models

import (
	"fmt"
	"time"
)

// AlertType represents the kind of condition an alert watches.
type AlertType string

const (
	// PriceAbove triggers when the price reaches or exceeds the threshold.
	PriceAbove AlertType = "price_above"
	// PriceBelow triggers when the price reaches or falls below the threshold.
	PriceBelow AlertType = "price_below"
	// PercentUp triggers when the price gains the threshold percentage over the base price.
	PercentUp AlertType = "percent_up"
	// PercentDown triggers when the price loses the threshold percentage from the base price.
	PercentDown AlertType = "percent_down"
)

// IsPercent reports whether the alert type is percentage based.
func (t AlertType) IsPercent() bool {
	return t == PercentUp || t == PercentDown
}

// Valid reports whether the alert type is one of the known types.
func (t AlertType) Valid() bool {
	switch t {
	case PriceAbove, PriceBelow, PercentUp, PercentDown:
		return true
	}
	return false
}

// AlertStatus represents the lifecycle state of an alert.
// Transitions are monotonic: active -> triggered or active -> cancelled.
type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertTriggered AlertStatus = "triggered"
	AlertCancelled AlertStatus = "cancelled"
)

// percentEpsilon absorbs float rounding at percentage boundaries.
const percentEpsilon = 1e-9

// PriceAlert is a persisted one-time price alert.
// Symbol is always a resolved exchange symbol, never raw user text.
type PriceAlert struct {
	ID          string      `json:"id"`
	Symbol      string      `json:"symbol"`
	AlertType   AlertType   `json:"alert_type"`
	Threshold   float64     `json:"threshold"`
	BasePrice   *float64    `json:"base_price"`
	Status      AlertStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	TriggeredAt *time.Time  `json:"triggered_at"`
}

// IsTriggered checks the alert condition against a current price.
// Percentage alerts compare against the base price captured at creation.
func (a *PriceAlert) IsTriggered(currentPrice float64) bool {
	if a.Status != AlertActive {
		return false
	}

	switch a.AlertType {
	case PriceAbove:
		return currentPrice >= a.Threshold

	case PriceBelow:
		return currentPrice <= a.Threshold

	case PercentUp:
		if a.BasePrice == nil || *a.BasePrice == 0 {
			return false
		}
		// Compare the realized move, with a tolerance so a price landing
		// exactly on the boundary is never lost to float rounding.
		gain := (currentPrice - *a.BasePrice) / *a.BasePrice * 100
		return gain >= a.Threshold-percentEpsilon

	case PercentDown:
		if a.BasePrice == nil || *a.BasePrice == 0 {
			return false
		}
		drop := (*a.BasePrice - currentPrice) / *a.BasePrice * 100
		return drop >= a.Threshold-percentEpsilon
	}

	return false
}

// TriggerMessage formats a human-readable message for a triggered alert.
func (a *PriceAlert) TriggerMessage(currentPrice float64) string {
	switch a.AlertType {
	case PercentUp:
		pct := (currentPrice - *a.BasePrice) / *a.BasePrice * 100
		return fmt.Sprintf("%s is up %.2f%% (₹%.2f → ₹%.2f)", a.Symbol, pct, *a.BasePrice, currentPrice)

	case PercentDown:
		pct := (*a.BasePrice - currentPrice) / *a.BasePrice * 100
		return fmt.Sprintf("%s is down %.2f%% (₹%.2f → ₹%.2f)", a.Symbol, pct, *a.BasePrice, currentPrice)

	case PriceAbove:
		return fmt.Sprintf("%s price is above ₹%.2f (current: ₹%.2f)", a.Symbol, a.Threshold, currentPrice)

	case PriceBelow:
		return fmt.Sprintf("%s price is below ₹%.2f (current: ₹%.2f)", a.Symbol, a.Threshold, currentPrice)
	}

	return fmt.Sprintf("alert triggered for %s", a.Symbol)
}

// Describe returns a one-line description of the alert condition.
func (a *PriceAlert) Describe() string {
	switch a.AlertType {
	case PriceAbove:
		return fmt.Sprintf("%s above ₹%.2f", a.Symbol, a.Threshold)
	case PriceBelow:
		return fmt.Sprintf("%s below ₹%.2f", a.Symbol, a.Threshold)
	case PercentUp:
		return fmt.Sprintf("%s up %.2f%% from ₹%.2f", a.Symbol, a.Threshold, base(a.BasePrice))
	case PercentDown:
		return fmt.Sprintf("%s down %.2f%% from ₹%.2f", a.Symbol, a.Threshold, base(a.BasePrice))
	}
	return a.Symbol
}

// ShortID returns the display prefix of the alert id, enough to cancel by.
func (a *PriceAlert) ShortID() string {
	if len(a.ID) > 8 {
		return a.ID[:8]
	}
	return a.ID
}

func base(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
