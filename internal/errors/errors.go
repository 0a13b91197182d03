// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrMarketClosed     = errors.New("market is closed")
	ErrRateLimited      = errors.New("rate limited")
	ErrConnectionFailed = errors.New("connection failed")
	ErrTimeout          = errors.New("operation timed out")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrAlertNotFound    = errors.New("alert not found")
	ErrAlertAmbiguous   = errors.New("alert id matches multiple alerts")
	ErrStoreCorrupt     = errors.New("alert store file is corrupt")
)

// ParseError indicates an alert command could not be understood.
// It is user-facing and carries a rephrasing suggestion.
type ParseError struct {
	Command    string
	Reason     string
	Suggestion string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Reason)
}

// NewParseError creates a ParseError with the default rephrasing suggestion.
func NewParseError(command, reason string) *ParseError {
	return &ParseError{
		Command:    command,
		Reason:     reason,
		Suggestion: "Try: 'Set alert for RELIANCE if price goes above ₹2500' or 'Alert me when TCS goes up by 5%'",
	}
}

// Suggestion is a rejected search candidate surfaced to the user.
type Suggestion struct {
	Symbol string
	Name   string
	Score  int
}

// ResolutionError indicates no symbol cleared the acceptance floor.
// Suggestions hold the best candidates found, even below the floor.
type ResolutionError struct {
	Query       string
	Suggestions []Suggestion
	Err         error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("could not resolve %q to a stock symbol", e.Query)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Suggestions) > 0 {
		names := make([]string, 0, len(e.Suggestions))
		for _, s := range e.Suggestions {
			names = append(names, fmt.Sprintf("%s (%s)", s.Symbol, s.Name))
		}
		msg = fmt.Sprintf("%s, did you mean: %s", msg, strings.Join(names, ", "))
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// NewResolutionError creates a ResolutionError.
func NewResolutionError(query string, suggestions []Suggestion, err error) *ResolutionError {
	return &ResolutionError{
		Query:       query,
		Suggestions: suggestions,
		Err:         err,
	}
}

// BrokerError represents an error from the broker API.
type BrokerError struct {
	Code    string
	Message string
	Err     error
}

func (e *BrokerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("broker error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("broker error [%s]: %s", e.Code, e.Message)
}

func (e *BrokerError) Unwrap() error {
	return e.Err
}

// NewBrokerError creates a new BrokerError.
func NewBrokerError(code, message string, err error) *BrokerError {
	return &BrokerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StoreError represents an alert store failure.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, path string, err error) *StoreError {
	return &StoreError{Op: op, Path: path, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
