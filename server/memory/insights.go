package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hrygo/venturemind/store"
)

// topNichesLimit caps the per-niche leaderboard in a snapshot.
const topNichesLimit = 10

// Insights aggregates the full experience journal into a point-in-time
// snapshot. The journal is read with a single list so the aggregation sees
// a consistent view; per-kind and per-niche rollups then run concurrently.
//
// On storage failure the returned snapshot is empty and the error is
// reported; callers that must not fail can serve the empty snapshot.
func (e *Engine) Insights(ctx context.Context) (*InsightsSnapshot, error) {
	snapshot := &InsightsSnapshot{
		ActionPerformance: map[string]ActionPerformance{},
		TopNiches:         []NichePerformance{},
		GeneratedTs:       time.Now().Unix(),
	}

	experiences, err := e.store.ListExperiences(ctx, &store.FindExperience{})
	if err != nil {
		slog.Error("failed to scan journal for insights", "error", err)
		return snapshot, err
	}
	snapshot.TotalExperiences = int64(len(experiences))

	var g errgroup.Group
	g.Go(func() error {
		snapshot.ActionPerformance = aggregateByActionKind(experiences)
		return nil
	})
	g.Go(func() error {
		snapshot.TopNiches = aggregateByNiche(experiences)
		return nil
	})
	// The rollups cannot fail; Wait just joins them.
	_ = g.Wait()

	return snapshot, nil
}

func aggregateByActionKind(experiences []*store.Experience) map[string]ActionPerformance {
	type acc struct {
		attempts  int64
		successes int64
		revenue   float64
	}
	accs := map[string]*acc{}
	for _, e := range experiences {
		a := accs[e.ActionKind]
		if a == nil {
			a = &acc{}
			accs[e.ActionKind] = a
		}
		a.attempts++
		if e.Success {
			a.successes++
		}
		a.revenue += e.Revenue
	}

	performance := make(map[string]ActionPerformance, len(accs))
	for kind, a := range accs {
		performance[kind] = ActionPerformance{
			SuccessRate:   float64(a.successes) / float64(a.attempts),
			AvgRevenue:    a.revenue / float64(a.attempts),
			TotalAttempts: a.attempts,
		}
	}
	return performance
}

func aggregateByNiche(experiences []*store.Experience) []NichePerformance {
	type acc struct {
		attempts  int64
		successes int64
		revenue   float64
	}
	accs := map[string]*acc{}
	for _, e := range experiences {
		var actionCtx ActionContext
		if err := json.Unmarshal([]byte(e.Context), &actionCtx); err != nil {
			// Malformed rows are excluded rather than aborting the scan.
			slog.Warn("skipping experience with malformed context", "uid", e.UID, "error", err)
			continue
		}
		if actionCtx.Niche == "" {
			continue
		}
		a := accs[actionCtx.Niche]
		if a == nil {
			a = &acc{}
			accs[actionCtx.Niche] = a
		}
		a.attempts++
		if e.Success {
			a.successes++
		}
		a.revenue += e.Revenue
	}

	niches := make([]NichePerformance, 0, len(accs))
	for niche, a := range accs {
		niches = append(niches, NichePerformance{
			Niche:       niche,
			SuccessRate: float64(a.successes) / float64(a.attempts),
			AvgRevenue:  a.revenue / float64(a.attempts),
		})
	}

	sort.Slice(niches, func(i, j int) bool {
		if niches[i].SuccessRate != niches[j].SuccessRate {
			return niches[i].SuccessRate > niches[j].SuccessRate
		}
		if niches[i].AvgRevenue != niches[j].AvgRevenue {
			return niches[i].AvgRevenue > niches[j].AvgRevenue
		}
		// Map iteration is unordered; the name keeps output deterministic.
		return niches[i].Niche < niches[j].Niche
	})

	if len(niches) > topNichesLimit {
		niches = niches[:topNichesLimit]
	}
	return niches
}
