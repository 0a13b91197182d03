// Package resolver maps free-text company references to validated exchange
// symbols using an ordered list of resolution strategies.
package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"groww-trader/internal/broker"
	"groww-trader/internal/errors"
	"groww-trader/internal/models"
)

// Score values for candidate ranking. Rules are evaluated in this order and
// the first match wins, so an exact symbol match scores exactly 100.
const (
	scoreSymbolExact    = 100
	scoreNameExact      = 90
	scoreSymbolPrefix   = 80
	scoreNamePrefix     = 70
	scoreSymbolContains = 60
	scoreNameContains   = 50
	scoreTokenOverlap   = 30
)

// DefaultAcceptanceFloor is the minimum score at which a search candidate is
// auto-accepted. Candidates below it are only surfaced as suggestions.
const DefaultAcceptanceFloor = 50

// maxSuggestions limits how many below-floor candidates surface in errors.
const maxSuggestions = 3

// prefixLen is the truncation length for the last-resort prefix strategy.
const prefixLen = 5

// Candidate is a scored search result. It is ephemeral: produced per search
// call and discarded once a winning symbol is chosen.
type Candidate struct {
	Symbol      string
	DisplayName string
	Score       int
}

// Resolution is a successfully resolved symbol with its price at resolution
// time.
type Resolution struct {
	Symbol       string
	CurrentPrice float64
	Quote        *models.StockQuote
}

// Resolver resolves raw stock references against the broker.
type Resolver struct {
	broker broker.Broker
	floor  int
	logger zerolog.Logger
}

// New creates a Resolver with the given acceptance floor. A floor of zero
// falls back to the default.
func New(b broker.Broker, floor int, logger zerolog.Logger) *Resolver {
	if floor <= 0 {
		floor = DefaultAcceptanceFloor
	}
	return &Resolver{broker: b, floor: floor, logger: logger}
}

// Resolve turns a raw reference phrase (plus optional fallback tokens) into a
// validated (symbol, price) pair. Strategies are tried in order and
// short-circuit on the first success:
//
//  1. direct price lookup treating the phrase as a symbol
//  2. full-phrase search, ranked
//  3. per-token search, longest token first
//  4. upper-cased phrase and truncated prefix searches
//
// If nothing clears the floor the error lists the best candidates found as
// suggestions.
func (r *Resolver) Resolve(ctx context.Context, rawReference string, fallbackTokens []string) (*Resolution, error) {
	ref := strings.TrimSpace(rawReference)
	if ref == "" {
		return nil, errors.NewResolutionError(rawReference, nil, nil)
	}

	// Strategy 1: the reference may already be a symbol.
	if res, err := r.direct(ctx, ref); err == nil {
		r.logger.Debug().Str("symbol", res.Symbol).Msg("direct lookup resolved reference")
		return res, nil
	}

	var best []Candidate

	// Strategy 2: full-phrase search.
	res, cands, err := r.searchAndRank(ctx, ref, ref)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	best = merge(best, cands)

	// Strategy 3: per-token search, longest first.
	tokens := append([]string(nil), fallbackTokens...)
	sort.SliceStable(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })
	for _, tok := range tokens {
		if len(tok) < 2 || strings.EqualFold(tok, ref) {
			continue
		}
		res, cands, err = r.searchAndRank(ctx, ref, tok)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
		best = merge(best, cands)
	}

	// Strategy 4: case and prefix variations.
	for _, variant := range variants(ref) {
		res, cands, err = r.searchAndRank(ctx, ref, variant)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
		best = merge(best, cands)
	}

	sortCandidates(best)
	if len(best) > maxSuggestions {
		best = best[:maxSuggestions]
	}
	suggestions := make([]errors.Suggestion, 0, len(best))
	for _, c := range best {
		suggestions = append(suggestions, errors.Suggestion{Symbol: c.Symbol, Name: c.DisplayName, Score: c.Score})
	}
	return nil, errors.NewResolutionError(rawReference, suggestions, nil)
}

// direct attempts a price lookup treating the query as a trading symbol.
func (r *Resolver) direct(ctx context.Context, query string) (*Resolution, error) {
	symbol := strings.ToUpper(strings.TrimSpace(query))
	quote, err := r.broker.GetStockPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &Resolution{Symbol: symbol, CurrentPrice: quote.LTP, Quote: quote}, nil
}

// searchAndRank searches for the query, ranks all candidates and, if the top
// candidate clears the floor, re-validates it with a price lookup. A
// re-validation failure is a hard error: search claimed a symbol that
// pricing rejects. The error names ref, the user's original reference,
// since query may be a derived token or prefix.
func (r *Resolver) searchAndRank(ctx context.Context, ref, query string) (*Resolution, []Candidate, error) {
	results, err := r.broker.SearchStocks(ctx, query)
	if err != nil {
		r.logger.Warn().Err(err).Str("query", query).Msg("stock search failed")
		return nil, nil, nil
	}
	if len(results) == 0 {
		return nil, nil, nil
	}

	candidates := Rank(query, results)
	top := candidates[0]
	if top.Score < r.floor {
		return nil, candidates, nil
	}

	quote, err := r.broker.GetStockPrice(ctx, top.Symbol)
	if err != nil {
		return nil, nil, errors.NewResolutionError(ref,
			[]errors.Suggestion{{Symbol: top.Symbol, Name: top.DisplayName, Score: top.Score}},
			errors.Wrapf(err, "search returned %s but price lookup rejected it", top.Symbol))
	}

	r.logger.Debug().
		Str("query", query).
		Str("symbol", top.Symbol).
		Int("score", top.Score).
		Msg("search resolved reference")

	return &Resolution{Symbol: top.Symbol, CurrentPrice: quote.LTP, Quote: quote}, nil, nil
}

// Rank scores search results against the query and returns them best first.
// Comparison is case-insensitive. Ties break toward the shorter symbol, the
// more canonical ticker.
func Rank(query string, results []models.Instrument) []Candidate {
	q := strings.ToUpper(strings.TrimSpace(query))

	candidates := make([]Candidate, 0, len(results))
	for _, res := range results {
		candidates = append(candidates, Candidate{
			Symbol:      res.TradingSymbol,
			DisplayName: res.Name,
			Score:       score(q, strings.ToUpper(res.TradingSymbol), strings.ToUpper(res.Name)),
		})
	}

	sortCandidates(candidates)
	return candidates
}

func score(q, symbol, name string) int {
	switch {
	case symbol == q:
		return scoreSymbolExact
	case name == q:
		return scoreNameExact
	case strings.HasPrefix(symbol, q):
		return scoreSymbolPrefix
	case strings.HasPrefix(name, q):
		return scoreNamePrefix
	case strings.Contains(symbol, q):
		return scoreSymbolContains
	case strings.Contains(name, q):
		return scoreNameContains
	case tokensOverlap(q, name):
		return scoreTokenOverlap
	}
	return 0
}

func tokensOverlap(q, name string) bool {
	nameTokens := strings.Fields(name)
	for _, qt := range strings.Fields(q) {
		for _, nt := range nameTokens {
			if qt == nt {
				return true
			}
		}
	}
	return false
}

func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if len(candidates[i].Symbol) != len(candidates[j].Symbol) {
			return len(candidates[i].Symbol) < len(candidates[j].Symbol)
		}
		return candidates[i].Symbol < candidates[j].Symbol
	})
}

func variants(ref string) []string {
	upper := strings.ToUpper(ref)
	out := []string{upper}

	compact := strings.ReplaceAll(upper, " ", "")
	if len(compact) > prefixLen {
		out = append(out, compact[:prefixLen])
	}
	return out
}

// merge keeps the best-scoring entry per symbol across strategies.
func merge(into, from []Candidate) []Candidate {
	for _, c := range from {
		replaced := false
		for i, existing := range into {
			if existing.Symbol == c.Symbol {
				if c.Score > existing.Score {
					into[i] = c
				}
				replaced = true
				break
			}
		}
		if !replaced {
			into = append(into, c)
		}
	}
	return into
}
