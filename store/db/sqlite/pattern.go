package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/venturemind/store"
)

func (d *DB) UpsertPattern(ctx context.Context, fold *store.FoldPattern) (*store.Pattern, error) {
	if fold == nil {
		return nil, fmt.Errorf("fold parameter cannot be nil")
	}
	if fold.LastUsedTs == 0 {
		fold.LastUsedTs = time.Now().Unix()
	}

	// The running-mean arithmetic lives in the upsert so the
	// read-modify-write is atomic; all SET expressions see the
	// pre-update row. The data snapshot is kept from the first success.
	query := `
		INSERT INTO successful_pattern (uid, action_kind, niche, data, success_rate, avg_revenue, usage_count, last_used_ts)
		VALUES (?, ?, ?, ?, 1.0, ?, 1, ?)
		ON CONFLICT (action_kind, niche) DO UPDATE SET
			success_rate = (successful_pattern.success_rate * successful_pattern.usage_count + 1) / (successful_pattern.usage_count + 1),
			avg_revenue = (successful_pattern.avg_revenue * successful_pattern.usage_count + excluded.avg_revenue) / (successful_pattern.usage_count + 1),
			usage_count = successful_pattern.usage_count + 1,
			last_used_ts = excluded.last_used_ts
		RETURNING id, uid, action_kind, niche, data, success_rate, avg_revenue, usage_count, last_used_ts
	`

	var pattern store.Pattern
	err := d.db.QueryRowContext(ctx, query,
		fold.UID, fold.ActionKind, fold.Niche, fold.Data, fold.Revenue, fold.LastUsedTs,
	).Scan(
		&pattern.ID, &pattern.UID, &pattern.ActionKind, &pattern.Niche,
		&pattern.Data, &pattern.SuccessRate, &pattern.AvgRevenue,
		&pattern.UsageCount, &pattern.LastUsedTs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert pattern: %w", err)
	}

	return &pattern, nil
}

func (d *DB) ListPatterns(ctx context.Context, find *store.FindPattern) ([]*store.Pattern, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ActionKind; v != nil {
		where, args = append(where, "action_kind = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Niche; v != nil {
		where, args = append(where, "niche = "+placeholder(len(args)+1)), append(args, *v)
	}

	// id ASC keeps the tie-break stable in insertion order; recommendation
	// selection relies on this ordering.
	query := `SELECT id, uid, action_kind, niche, data, success_rate, avg_revenue, usage_count, last_used_ts
		FROM successful_pattern WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY success_rate DESC, avg_revenue DESC, id ASC`

	limit := find.Limit
	if limit > 0 {
		if limit > 1000 {
			limit = 1000
		}
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Pattern, 0)
	for rows.Next() {
		p := &store.Pattern{}
		if err := rows.Scan(
			&p.ID,
			&p.UID,
			&p.ActionKind,
			&p.Niche,
			&p.Data,
			&p.SuccessRate,
			&p.AvgRevenue,
			&p.UsageCount,
			&p.LastUsedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patterns: %w", err)
	}

	return list, nil
}
