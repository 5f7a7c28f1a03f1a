package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name     string
		context  ActionContext
		data     PatternData
		expected float64
	}{
		{
			name:     "no comparable fields",
			context:  ActionContext{Niche: "fitness"},
			data:     PatternData{Keywords: []string{"yoga"}},
			expected: 0,
		},
		{
			name:     "empty context and pattern",
			context:  ActionContext{},
			data:     PatternData{},
			expected: 0,
		},
		{
			name:     "niche exact match",
			context:  ActionContext{Niche: "fitness"},
			data:     PatternData{Niche: "fitness"},
			expected: 1.0,
		},
		{
			name:     "niche match is case-insensitive",
			context:  ActionContext{Niche: "Fitness"},
			data:     PatternData{Niche: "fitness"},
			expected: 1.0,
		},
		{
			name:     "niche mismatch",
			context:  ActionContext{Niche: "gaming"},
			data:     PatternData{Niche: "fitness"},
			expected: 0,
		},
		{
			name:     "price within 20 percent",
			context:  ActionContext{Price: floatPtr(45)},
			data:     PatternData{Price: floatPtr(47)},
			expected: 1.0,
		},
		{
			name:     "price outside 20 percent",
			context:  ActionContext{Price: floatPtr(100)},
			data:     PatternData{Price: floatPtr(47)},
			expected: 0,
		},
		{
			name:    "pattern price of zero does not count",
			context: ActionContext{Niche: "fitness", Price: floatPtr(45)},
			data:    PatternData{Niche: "fitness", Price: floatPtr(0)},
			// Only the niche factor counts: 0.4 / 0.4.
			expected: 1.0,
		},
		{
			name:     "full keyword overlap",
			context:  ActionContext{Keywords: []string{"yoga", "pilates"}},
			data:     PatternData{Keywords: []string{"yoga", "pilates"}},
			expected: 1.0,
		},
		{
			name:    "partial keyword overlap",
			context: ActionContext{Keywords: []string{"yoga"}},
			data:    PatternData{Keywords: []string{"yoga", "pilates"}},
			// 0.3 * 1/2 over a denominator of 0.3.
			expected: 0.5,
		},
		{
			name:    "duplicate context keywords count once",
			context: ActionContext{Keywords: []string{"yoga", "yoga"}},
			data:    PatternData{Keywords: []string{"yoga", "pilates"}},
			expected: 0.5,
		},
		{
			name: "all three factors match",
			context: ActionContext{
				Niche:    "fitness",
				Price:    floatPtr(45),
				Keywords: []string{"yoga"},
			},
			data: PatternData{
				Niche:    "fitness",
				Price:    floatPtr(47),
				Keywords: []string{"yoga"},
			},
			expected: 1.0,
		},
		{
			name: "mixed match and mismatch renormalizes",
			context: ActionContext{
				Niche: "fitness",
				Price: floatPtr(200),
			},
			data: PatternData{
				Niche: "fitness",
				Price: floatPtr(47),
			},
			// niche 0.4 over denominator 0.7.
			expected: 0.4 / 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := MatchScore(tt.context, tt.data)
			assert.InDelta(t, tt.expected, score, 1e-9)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}
