package memory

import (
	"encoding/json"

	"github.com/hrygo/venturemind/store"
)

// Action kinds with dedicated lesson derivation. Callers may record any
// other kind; those rows are journaled without a lesson.
const (
	ActionKindProductCreation   = "product_creation"
	ActionKindMarketingCampaign = "marketing_campaign"
	ActionKindTrendAnalysis     = "trend_analysis"
)

// ActionContext is the recognized slice of a caller-supplied action context.
// Unrecognized keys are preserved opaquely in Extra and round-trip through
// the persisted JSON document without being interpreted.
type ActionContext struct {
	Niche          string
	Price          *float64
	Keywords       []string
	AdStyle        string
	TargetAudience string
	Keyword        string
	Extra          map[string]json.RawMessage
}

var contextKeys = map[string]bool{
	"niche":           true,
	"price":           true,
	"keywords":        true,
	"ad_style":        true,
	"target_audience": true,
	"keyword":         true,
}

func (c *ActionContext) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["niche"]; ok {
		if err := json.Unmarshal(v, &c.Niche); err != nil {
			return err
		}
	}
	if v, ok := raw["price"]; ok {
		if err := json.Unmarshal(v, &c.Price); err != nil {
			return err
		}
	}
	if v, ok := raw["keywords"]; ok {
		if err := json.Unmarshal(v, &c.Keywords); err != nil {
			return err
		}
	}
	if v, ok := raw["ad_style"]; ok {
		if err := json.Unmarshal(v, &c.AdStyle); err != nil {
			return err
		}
	}
	if v, ok := raw["target_audience"]; ok {
		if err := json.Unmarshal(v, &c.TargetAudience); err != nil {
			return err
		}
	}
	if v, ok := raw["keyword"]; ok {
		if err := json.Unmarshal(v, &c.Keyword); err != nil {
			return err
		}
	}

	for key, value := range raw {
		if contextKeys[key] {
			continue
		}
		if c.Extra == nil {
			c.Extra = map[string]json.RawMessage{}
		}
		c.Extra[key] = value
	}
	return nil
}

func (c ActionContext) MarshalJSON() ([]byte, error) {
	doc := map[string]any{}
	for key, value := range c.Extra {
		doc[key] = value
	}
	if c.Niche != "" {
		doc["niche"] = c.Niche
	}
	if c.Price != nil {
		doc["price"] = *c.Price
	}
	if len(c.Keywords) > 0 {
		doc["keywords"] = c.Keywords
	}
	if c.AdStyle != "" {
		doc["ad_style"] = c.AdStyle
	}
	if c.TargetAudience != "" {
		doc["target_audience"] = c.TargetAudience
	}
	if c.Keyword != "" {
		doc["keyword"] = c.Keyword
	}
	return json.Marshal(doc)
}

// ActionResult is the recognized slice of a caller-supplied action result.
type ActionResult struct {
	Success        bool
	Revenue        float64
	SuccessFactors []string
	InterestScore  *float64
	Extra          map[string]json.RawMessage
}

var resultKeys = map[string]bool{
	"success":           true,
	"revenue_generated": true,
	"success_factors":   true,
	"interest_score":    true,
}

func (r *ActionResult) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["success"]; ok {
		if err := json.Unmarshal(v, &r.Success); err != nil {
			return err
		}
	}
	if v, ok := raw["revenue_generated"]; ok {
		if err := json.Unmarshal(v, &r.Revenue); err != nil {
			return err
		}
	}
	if v, ok := raw["success_factors"]; ok {
		if err := json.Unmarshal(v, &r.SuccessFactors); err != nil {
			return err
		}
	}
	if v, ok := raw["interest_score"]; ok {
		if err := json.Unmarshal(v, &r.InterestScore); err != nil {
			return err
		}
	}

	for key, value := range raw {
		if resultKeys[key] {
			continue
		}
		if r.Extra == nil {
			r.Extra = map[string]json.RawMessage{}
		}
		r.Extra[key] = value
	}
	return nil
}

func (r ActionResult) MarshalJSON() ([]byte, error) {
	doc := map[string]any{}
	for key, value := range r.Extra {
		doc[key] = value
	}
	doc["success"] = r.Success
	doc["revenue_generated"] = r.Revenue
	if len(r.SuccessFactors) > 0 {
		doc["success_factors"] = r.SuccessFactors
	}
	if r.InterestScore != nil {
		doc["interest_score"] = *r.InterestScore
	}
	return json.Marshal(doc)
}

// PatternData is the structured payload snapshotted into a pattern row on
// its first successful fold.
type PatternData struct {
	Niche          string   `json:"niche,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	SuccessFactors []string `json:"success_factors,omitempty"`
}

// RecommendationKind tags the variant of a Recommendation.
type RecommendationKind string

const (
	RecommendationNoData     RecommendationKind = "no_data"
	RecommendationUsePattern RecommendationKind = "use_pattern"
	RecommendationExploreNew RecommendationKind = "explore_new"
	RecommendationError      RecommendationKind = "error"
)

// Recommendation is the decision-support output for a proposed action.
type Recommendation struct {
	Kind                RecommendationKind `json:"recommendation"`
	Confidence          float64            `json:"confidence"`
	Pattern             *store.Pattern     `json:"pattern,omitempty"`
	ExpectedSuccessRate float64            `json:"expected_success_rate,omitempty"`
	ExpectedRevenue     float64            `json:"expected_revenue,omitempty"`
	Message             string             `json:"error,omitempty"`
}

// ActionPerformance aggregates journal outcomes for one action kind.
type ActionPerformance struct {
	SuccessRate   float64 `json:"success_rate"`
	AvgRevenue    float64 `json:"avg_revenue"`
	TotalAttempts int64   `json:"total_attempts"`
}

// NichePerformance aggregates journal outcomes for one niche.
type NichePerformance struct {
	Niche       string  `json:"niche"`
	SuccessRate float64 `json:"success_rate"`
	AvgRevenue  float64 `json:"avg_revenue"`
}

// InsightsSnapshot is a point-in-time aggregation over the full journal.
// It is derived, never stored.
type InsightsSnapshot struct {
	ActionPerformance map[string]ActionPerformance `json:"action_performance"`
	TopNiches         []NichePerformance           `json:"top_niches"`
	TotalExperiences  int64                        `json:"total_experiences"`
	GeneratedTs       int64                        `json:"generated_ts"`
}
