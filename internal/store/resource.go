package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillsense/internal/catalog"
)

var resourceColumns = []string{
	"id", "skill_id", "title", "url", "provider", "kind",
	"difficulty", "rating", "review_count", "duration_hours", "free",
}

type resourceRepo struct {
	db *sql.DB
}

func (r *resourceRepo) ForSkills(ctx context.Context, skillIDs []string) (map[string][]catalog.Resource, error) {
	out := make(map[string][]catalog.Resource, len(skillIDs))
	if len(skillIDs) == 0 {
		return out, nil
	}

	ids := make([]any, len(skillIDs))
	for i, id := range skillIDs {
		ids[i] = id
	}

	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(resourceColumns...).
		From(b.Table(resourcesTable)).
		Where(entsql.In("skill_id", ids...)).
		OrderBy("skill_id", "id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res        catalog.Resource
			kind, diff string
		)
		if err := rows.Scan(&res.ID, &res.SkillID, &res.Title, &res.URL, &res.Provider, &kind,
			&diff, &res.Rating, &res.ReviewCount, &res.DurationHours, &res.Free); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		res.Kind = catalog.Kind(kind)
		res.Difficulty = catalog.Difficulty(diff)
		out[res.SkillID] = append(out[res.SkillID], res)
	}
	return out, rows.Err()
}

func (r *resourceRepo) Upsert(ctx context.Context, res catalog.Resource) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(resourcesTable).
		Columns(resourceColumns...).
		Values(res.ID, res.SkillID, res.Title, res.URL, res.Provider, string(res.Kind),
			string(res.Difficulty), res.Rating, res.ReviewCount, res.DurationHours, res.Free).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert resource %q: %w", res.ID, err)
	}
	return nil
}

func (r *resourceRepo) Count(ctx context.Context) (int, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(entsql.Count("*")).From(b.Table(resourcesTable)).Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return n, nil
}
