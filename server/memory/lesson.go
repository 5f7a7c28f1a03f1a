package memory

import (
	"fmt"
	"strconv"
)

// unknownField renders in place of a missing context or result field so
// lesson derivation never fails on sparse input.
const unknownField = "unknown"

// deriveLesson produces the short human-readable lesson stored alongside an
// experience. Derivation is a fixed lookup keyed by action kind, not text
// generation; unhandled kinds yield no lesson.
func deriveLesson(actionKind string, context ActionContext, result ActionResult) string {
	switch actionKind {
	case ActionKindProductCreation:
		if result.Success {
			return fmt.Sprintf("Successful product in %s niche; price point %s worked well",
				orUnknown(context.Niche), floatOrUnknown(context.Price))
		}
		return fmt.Sprintf("Product failed in %s niche", orUnknown(context.Niche))
	case ActionKindMarketingCampaign:
		if result.Success {
			return fmt.Sprintf("Effective ad style: %s; target audience: %s",
				orUnknown(context.AdStyle), orUnknown(context.TargetAudience))
		}
		return ""
	case ActionKindTrendAnalysis:
		// Trend observations are worth keeping regardless of outcome.
		return fmt.Sprintf("Trend '%s' had %s interest",
			orUnknown(context.Keyword), floatOrUnknown(result.InterestScore))
	}
	return ""
}

func orUnknown(s string) string {
	if s == "" {
		return unknownField
	}
	return s
}

func floatOrUnknown(v *float64) string {
	if v == nil {
		return unknownField
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
