package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/venturemind/store"
)

func (d *DB) CreateExperience(ctx context.Context, create *store.Experience) (*store.Experience, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	fields := []string{"uid", "action_kind", "context", "result", "success", "revenue", "lesson", "created_ts"}
	args := []any{
		create.UID,
		create.ActionKind,
		create.Context,
		create.Result,
		create.Success,
		create.Revenue,
		create.Lesson,
		create.CreatedTs,
	}

	stmt := `INSERT INTO experience (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}

	return create, nil
}

func (d *DB) ListExperiences(ctx context.Context, find *store.FindExperience) ([]*store.Experience, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ActionKind; v != nil {
		where, args = append(where, "action_kind = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Success; v != nil {
		where, args = append(where, "success = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatedAfter; v != nil {
		where, args = append(where, "created_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, uid, action_kind, context, result, success, revenue, lesson, created_ts
		FROM experience WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC, id DESC`

	limit := find.Limit
	if limit > 0 {
		if limit > 1000 {
			limit = 1000 // Cap to prevent excessive data retrieval
		}
		query += fmt.Sprintf(" LIMIT %d", limit)
		// SQLite only accepts OFFSET after LIMIT.
		if find.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Experience, 0)
	for rows.Next() {
		e := &store.Experience{}
		if err := rows.Scan(
			&e.ID,
			&e.UID,
			&e.ActionKind,
			&e.Context,
			&e.Result,
			&e.Success,
			&e.Revenue,
			&e.Lesson,
			&e.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		list = append(list, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate experiences: %w", err)
	}

	return list, nil
}
