// Package memory implements the learning and decision-support memory engine.
//
// The engine journals outcomes of automated business actions as immutable
// experiences, folds successful ones into per-(action kind, niche) pattern
// aggregates, and scores proposed contexts against those aggregates to
// produce recommendations with a confidence value.
//
// All operations degrade gracefully: callers receive a boolean, a tagged
// recommendation, or a snapshot, never a fault from this subsystem.
package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/venturemind/store"
)

// Thresholds for recommendation selection.
const (
	// usePatternThreshold is the minimum match score before a known
	// pattern is recommended over exploration.
	usePatternThreshold = 0.5
	// exploreConfidence is the fixed confidence attached to an
	// explore_new recommendation. It is a constant by design, not
	// derived from data.
	exploreConfidence = 0.3
)

// Store is the interface for store operations needed by the memory engine.
type Store interface {
	CreateExperience(ctx context.Context, create *store.Experience) (*store.Experience, error)
	ListExperiences(ctx context.Context, find *store.FindExperience) ([]*store.Experience, error)
	UpsertPattern(ctx context.Context, fold *store.FoldPattern) (*store.Pattern, error)
	ListPatterns(ctx context.Context, find *store.FindPattern) ([]*store.Pattern, error)
}

// Engine is the memory engine. Construct it with NewEngine and inject it
// into callers; it holds no global state.
type Engine struct {
	store Store
}

// NewEngine creates a new Engine backed by the given store.
func NewEngine(st Store) *Engine {
	return &Engine{store: st}
}

// Record persists one immutable experience and, for successful outcomes,
// folds it into the matching pattern aggregate. It reports whether the
// experience became durable; storage failures are logged, never raised.
//
// The pattern fold is a separate failure domain: once the experience row is
// durable, a failed fold does not roll it back and Record still returns true.
func (e *Engine) Record(ctx context.Context, actionKind string, actionCtx ActionContext, result ActionResult) bool {
	if actionKind == "" {
		slog.Error("refusing to record experience without action kind")
		return false
	}

	contextBlob, err := json.Marshal(actionCtx)
	if err != nil {
		slog.Error("failed to encode action context", "error", err)
		return false
	}
	resultBlob, err := json.Marshal(result)
	if err != nil {
		slog.Error("failed to encode action result", "error", err)
		return false
	}

	experience := &store.Experience{
		UID:        shortuuid.New(),
		ActionKind: actionKind,
		Context:    string(contextBlob),
		Result:     string(resultBlob),
		Success:    result.Success,
		Revenue:    result.Revenue,
		Lesson:     deriveLesson(actionKind, actionCtx, result),
		CreatedTs:  time.Now().Unix(),
	}
	if _, err := e.store.CreateExperience(ctx, experience); err != nil {
		slog.Error("failed to record experience", "actionKind", actionKind, "error", err)
		return false
	}

	if result.Success {
		e.foldPattern(ctx, actionKind, actionCtx, result)
	}

	return true
}

// foldPattern carries a successful outcome into the (action kind, niche)
// aggregate. The fold is atomic at the storage layer, so concurrent
// successes for the same key cannot lose updates.
func (e *Engine) foldPattern(ctx context.Context, actionKind string, actionCtx ActionContext, result ActionResult) {
	data := PatternData{
		Niche:          actionCtx.Niche,
		Price:          actionCtx.Price,
		Keywords:       actionCtx.Keywords,
		SuccessFactors: result.SuccessFactors,
	}
	blob, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode pattern data", "actionKind", actionKind, "error", err)
		return
	}

	fold := &store.FoldPattern{
		UID:        shortuuid.New(),
		ActionKind: actionKind,
		Niche:      actionCtx.Niche,
		Data:       string(blob),
		Revenue:    result.Revenue,
		LastUsedTs: time.Now().Unix(),
	}
	if _, err := e.store.UpsertPattern(ctx, fold); err != nil {
		slog.Error("failed to fold pattern", "actionKind", actionKind, "niche", actionCtx.Niche, "error", err)
	}
}

// Patterns returns known patterns, optionally restricted to one action
// kind, ordered by success rate, then average revenue, then insertion.
func (e *Engine) Patterns(ctx context.Context, actionKind string) ([]*store.Pattern, error) {
	find := &store.FindPattern{}
	if actionKind != "" {
		find.ActionKind = &actionKind
	}
	return e.store.ListPatterns(ctx, find)
}

// Recommend scores the proposed context against known patterns for the
// action kind and returns a tagged recommendation.
func (e *Engine) Recommend(ctx context.Context, actionKind string, actionCtx ActionContext) Recommendation {
	patterns, err := e.Patterns(ctx, actionKind)
	if err != nil {
		slog.Error("failed to load patterns for recommendation", "actionKind", actionKind, "error", err)
		return Recommendation{Kind: RecommendationError, Message: err.Error()}
	}

	if len(patterns) == 0 {
		return Recommendation{Kind: RecommendationNoData, Confidence: 0.0}
	}

	var best *store.Pattern
	bestScore := 0.0
	for _, pattern := range patterns {
		var data PatternData
		if err := json.Unmarshal([]byte(pattern.Data), &data); err != nil {
			// A malformed row is excluded from scoring, not fatal.
			slog.Warn("skipping pattern with malformed data", "uid", pattern.UID, "error", err)
			continue
		}
		// Strict > keeps the first candidate in query order on ties,
		// i.e. the one already ranked higher by success rate.
		if score := MatchScore(actionCtx, data); score > bestScore {
			bestScore = score
			best = pattern
		}
	}

	if best != nil && bestScore > usePatternThreshold {
		return Recommendation{
			Kind:                RecommendationUsePattern,
			Confidence:          bestScore,
			Pattern:             best,
			ExpectedSuccessRate: best.SuccessRate,
			ExpectedRevenue:     best.AvgRevenue,
		}
	}

	return Recommendation{Kind: RecommendationExploreNew, Confidence: exploreConfidence}
}
