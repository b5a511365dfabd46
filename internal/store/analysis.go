package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillsense/internal/gap"
)

// analysisRepo implements AnalysisRepo. Results are stored as JSON
// snapshots; only the columns needed for ordering and pruning are split out.
type analysisRepo struct {
	db   *sql.DB
	keep int
}

func (r *analysisRepo) Append(ctx context.Context, res gap.Result) error {
	if res.Gaps == nil {
		res.Gaps = []gap.SkillGap{}
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Insert(analysesTable).
		Columns("result_id", "user_id", "role_id", "readiness", "scorer", "result", "analyzed_at").
		Values(res.ID, res.UserID, res.TargetRole.ID, res.OverallReadiness, res.Scorer, string(data), res.AnalyzedAt.UTC()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	if err := r.prune(ctx, tx, res.UserID); err != nil {
		return err
	}
	return tx.Commit()
}

// prune deletes all but the newest r.keep analyses for the user.
func (r *analysisRepo) prune(ctx context.Context, tx *sql.Tx, userID string) error {
	if r.keep <= 0 {
		return nil
	}

	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("id").
		From(b.Table(analysesTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("analyzed_at"), entsql.Desc("id")).
		Limit(-1). // SQLite only accepts OFFSET after LIMIT
		Offset(r.keep).
		Query()

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query analyses for prune: %w", err)
	}
	var stale []any
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan analysis id: %w", err)
		}
		stale = append(stale, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	query, args = b.Delete(analysesTable).Where(entsql.In("id", stale...)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune analyses: %w", err)
	}
	return nil
}

func (r *analysisRepo) History(ctx context.Context, userID string, limit int) ([]gap.Result, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select("result").
		From(b.Table(analysesTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("analyzed_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := []gap.Result{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		var res gap.Result
		if err := json.Unmarshal([]byte(data), &res); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *analysisRepo) Latest(ctx context.Context, userID string) (*gap.Result, error) {
	results, err := r.History(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}
