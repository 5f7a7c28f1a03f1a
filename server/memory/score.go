package memory

import (
	"math"
	"strings"
)

// Factor weights for pattern matching. Each factor only joins the
// denominator when both the proposed context and the pattern carry the
// relevant field, so sparse contexts are scored on what they do share.
const (
	nicheWeight   = 0.4
	priceWeight   = 0.3
	keywordWeight = 0.3

	// priceTolerance is the relative deviation still considered a match.
	priceTolerance = 0.2
)

// MatchScore computes how well a proposed context matches a pattern's
// snapshotted data. The result is always in [0, 1]; a context sharing no
// comparable field with the pattern scores exactly 0.
func MatchScore(context ActionContext, data PatternData) float64 {
	score, total := 0.0, 0.0

	if context.Niche != "" && data.Niche != "" {
		if strings.EqualFold(context.Niche, data.Niche) {
			score += nicheWeight
		}
		total += nicheWeight
	}

	// A snapshotted price of zero would blow up the relative deviation;
	// the factor simply does not count for that pattern.
	if context.Price != nil && data.Price != nil && *data.Price != 0 {
		if math.Abs(*context.Price-*data.Price) / *data.Price < priceTolerance {
			score += priceWeight
		}
		total += priceWeight
	}

	if len(context.Keywords) > 0 && len(data.Keywords) > 0 {
		patternSet := make(map[string]struct{}, len(data.Keywords))
		for _, kw := range data.Keywords {
			patternSet[kw] = struct{}{}
		}
		seen := make(map[string]struct{}, len(context.Keywords))
		common := 0
		for _, kw := range context.Keywords {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			if _, ok := patternSet[kw]; ok {
				common++
			}
		}
		score += keywordWeight * float64(common) / float64(len(patternSet))
		total += keywordWeight
	}

	if total == 0 {
		return 0
	}
	return score / total
}
