package resolver

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"groww-trader/internal/models"
)

// An exact ticker match always ranks first with score 100, no matter
// what else the search returned or in what order.
func TestRankExactSymbolAlwaysWins(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	symbolGen := gen.RegexMatch(`[A-Z]{3,10}`)

	properties.Property("exact symbol match ranks first with score 100", prop.ForAll(
		func(target string, others []string) bool {
			results := []models.Instrument{
				{TradingSymbol: target, Name: target + " Limited"},
			}
			for _, o := range others {
				if strings.EqualFold(o, target) {
					continue
				}
				results = append(results, models.Instrument{
					TradingSymbol: o,
					Name:          o + " Industries",
				})
			}

			candidates := Rank(target, results)
			return candidates[0].Symbol == target && candidates[0].Score == 100
		},
		symbolGen,
		gen.SliceOf(symbolGen),
	))

	properties.Property("scores never exceed 100 or go negative", prop.ForAll(
		func(query string, symbols []string) bool {
			results := make([]models.Instrument, 0, len(symbols))
			for _, s := range symbols {
				results = append(results, models.Instrument{TradingSymbol: s, Name: s})
			}
			for _, c := range Rank(query, results) {
				if c.Score < 0 || c.Score > 100 {
					return false
				}
			}
			return true
		},
		gen.RegexMatch(`[A-Za-z ]{1,20}`),
		gen.SliceOf(symbolGen),
	))

	properties.TestingRun(t)
}
