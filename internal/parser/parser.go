// Package parser extracts alert parameters from natural-language commands.
//
// The grammar is deliberately narrow: a stock reference, a direction cue and
// a numeric threshold. Anything else is rejected with a ParseError rather
// than guessed at.
package parser

import (
	"strconv"
	"strings"

	"groww-trader/internal/errors"
	"groww-trader/internal/models"
)

// ParsedCommand is the result of parsing an alert instruction.
type ParsedCommand struct {
	// RawReference is the joined stock-reference phrase, in original token order.
	RawReference string
	// FallbackTokens are the individual reference tokens, for per-token resolution.
	FallbackTokens []string
	AlertType      models.AlertType
	Threshold      float64
}

// stopWords are command verbs and filler stripped before classification.
var stopWords = map[string]bool{
	"set": true, "alert": true, "alerts": true, "for": true, "if": true,
	"when": true, "me": true, "a": true, "an": true, "the": true, "my": true,
	"it": true, "its": true, "is": true, "goes": true, "go": true, "by": true,
	"and": true, "or": true, "at": true, "price": true, "stock": true,
	"stocks": true, "share": true, "shares": true, "notify": true,
	"rs": true, "rs.": true, "inr": true, "rupees": true, "to": true,
	"than": true, "of": true, "on": true, "reaches": true, "hits": true,
	"crosses": true, "percent": true, "%": true, "tell": true, "let": true,
	"know": true, "please": true, "watch": true,
}

// cueKind classifies a direction keyword.
type cueKind int

const (
	cueNone cueKind = iota
	cueAbove
	cueBelow
	cueUp
	cueDown
)

func classifyCue(token string, next string) cueKind {
	switch token {
	case "above", "over", "exceeds":
		return cueAbove
	case "below", "under":
		return cueBelow
	case "up", "increases", "rises", "gains", "jumps":
		// "goes up to 100" and "rises above 100" are price targets,
		// not percentage moves
		if next == "to" || next == "above" || next == "over" {
			return cueAbove
		}
		return cueUp
	case "down", "decreases", "falls", "drops", "declines", "loses":
		if next == "to" || next == "below" || next == "under" {
			return cueBelow
		}
		return cueDown
	}
	return cueNone
}

// Parse extracts {stock reference, alert type, threshold} from a free-text
// instruction. It fails with *errors.ParseError when no direction cue or no
// numeric threshold is recognized.
func Parse(command string) (*ParsedCommand, error) {
	tokens := tokenize(command)
	if len(tokens) == 0 {
		return nil, errors.NewParseError(command, "empty command")
	}

	cue := cueNone
	cueIdx := -1
	for i, tok := range tokens {
		next := ""
		if i+1 < len(tokens) {
			next = tokens[i+1].text
		}
		if k := classifyCue(tok.text, next); k != cueNone {
			cue = k
			cueIdx = i
			break
		}
	}
	if cue == cueNone {
		return nil, errors.NewParseError(command, "no alert condition recognized")
	}

	// Threshold is the first number after the cue, not the first in the
	// sentence, so quantities mentioned earlier are never misread.
	threshold, percentMarked, found := firstNumberAfter(tokens, cueIdx)
	if !found {
		return nil, errors.NewParseError(command, "no threshold value found")
	}

	alertType, err := resolveType(cue, percentMarked, command)
	if err != nil {
		return nil, err
	}

	ref, fallbacks := referenceTokens(tokens, cueIdx)
	if ref == "" {
		return nil, errors.NewParseError(command, "could not identify a stock name or symbol")
	}

	return &ParsedCommand{
		RawReference:   ref,
		FallbackTokens: fallbacks,
		AlertType:      alertType,
		Threshold:      threshold,
	}, nil
}

func resolveType(cue cueKind, percentMarked bool, command string) (models.AlertType, error) {
	switch cue {
	case cueAbove:
		return models.PriceAbove, nil
	case cueBelow:
		return models.PriceBelow, nil
	case cueUp:
		if !percentMarked {
			return "", errors.NewParseError(command, "no alert condition recognized")
		}
		return models.PercentUp, nil
	case cueDown:
		if !percentMarked {
			return "", errors.NewParseError(command, "no alert condition recognized")
		}
		return models.PercentDown, nil
	}
	return "", errors.NewParseError(command, "no alert condition recognized")
}

// token is a cleaned word with its numeric interpretation, if any.
type token struct {
	text      string
	value     float64
	isNumber  bool
	isPercent bool
}

func tokenize(command string) []token {
	fields := strings.Fields(strings.ToLower(command))
	tokens := make([]token, 0, len(fields))

	for _, f := range fields {
		percent := strings.HasSuffix(f, "%")
		cleaned := strings.Trim(f, ".,!?;:'\"()")
		cleaned = strings.TrimPrefix(cleaned, "₹")
		cleaned = strings.TrimPrefix(cleaned, "$")
		cleaned = strings.TrimSuffix(cleaned, "%")
		cleaned = strings.Trim(cleaned, ".,")
		if cleaned == "" {
			if percent {
				tokens = append(tokens, token{text: "%", isPercent: true})
			}
			continue
		}

		numeric := strings.ReplaceAll(cleaned, ",", "")
		if v, err := strconv.ParseFloat(numeric, 64); err == nil {
			tokens = append(tokens, token{text: cleaned, value: v, isNumber: true, isPercent: percent})
			continue
		}

		tokens = append(tokens, token{text: cleaned, isPercent: percent})
	}

	return tokens
}

func firstNumberAfter(tokens []token, idx int) (value float64, percentMarked bool, found bool) {
	for i := idx + 1; i < len(tokens); i++ {
		if !tokens[i].isNumber {
			continue
		}
		percent := tokens[i].isPercent
		// A standalone "%" or "percent" token following the number also marks it.
		if !percent && i+1 < len(tokens) {
			next := tokens[i+1]
			percent = next.text == "%" || next.text == "percent"
		}
		return tokens[i].value, percent, true
	}
	return 0, false, false
}

// referenceTokens returns the joined stock-reference phrase and the
// individual tokens, preserving original order. Numbers, stop words and the
// direction cue itself never belong to the reference.
func referenceTokens(tokens []token, cueIdx int) (string, []string) {
	var parts []string
	for i, tok := range tokens {
		if i == cueIdx || tok.isNumber || stopWords[tok.text] {
			continue
		}
		if classifyCue(tok.text, "") != cueNone {
			continue
		}
		parts = append(parts, tok.text)
	}
	return strings.Join(parts, " "), parts
}
