package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/venturemind/store"
)

func (d *DB) UpsertMarketInsight(ctx context.Context, upsert *store.UpsertMarketInsight) (*store.MarketInsight, error) {
	if upsert == nil {
		return nil, fmt.Errorf("upsert parameter cannot be nil")
	}
	if upsert.UpdatedTs == 0 {
		upsert.UpdatedTs = time.Now().Unix()
	}

	query := `
		INSERT INTO market_insight (niche, trend_data, performance_data, optimal_pricing, best_times, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (niche) DO UPDATE SET
			trend_data = excluded.trend_data,
			performance_data = excluded.performance_data,
			optimal_pricing = excluded.optimal_pricing,
			best_times = excluded.best_times,
			updated_ts = excluded.updated_ts
		RETURNING id, niche, trend_data, performance_data, optimal_pricing, best_times, updated_ts
	`

	var insight store.MarketInsight
	err := d.db.QueryRowContext(ctx, query,
		upsert.Niche, upsert.TrendData, upsert.PerformanceData,
		upsert.OptimalPricing, upsert.BestTimes, upsert.UpdatedTs,
	).Scan(
		&insight.ID, &insight.Niche, &insight.TrendData, &insight.PerformanceData,
		&insight.OptimalPricing, &insight.BestTimes, &insight.UpdatedTs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert market insight: %w", err)
	}

	return &insight, nil
}

func (d *DB) ListMarketInsights(ctx context.Context, find *store.FindMarketInsight) ([]*store.MarketInsight, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}

	if v := find.Niche; v != nil {
		where, args = append(where, "niche = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, niche, trend_data, performance_data, optimal_pricing, best_times, updated_ts
		FROM market_insight WHERE ` + strings.Join(where, " AND ") + ` ORDER BY updated_ts DESC`

	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list market insights: %w", err)
	}
	defer rows.Close()

	list := make([]*store.MarketInsight, 0)
	for rows.Next() {
		m := &store.MarketInsight{}
		if err := rows.Scan(
			&m.ID,
			&m.Niche,
			&m.TrendData,
			&m.PerformanceData,
			&m.OptimalPricing,
			&m.BestTimes,
			&m.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan market insight: %w", err)
		}
		list = append(list, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate market insights: %w", err)
	}

	return list, nil
}
