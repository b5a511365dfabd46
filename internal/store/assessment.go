package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// ErrAlreadyCompleted is returned when answers are submitted twice.
var ErrAlreadyCompleted = errors.New("assessment already completed")

type assessmentRepo struct {
	db *sql.DB
}

func (r *assessmentRepo) Create(ctx context.Context, a *Assessment) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(assessmentsTable).
		Columns("id", "user_id", "skill_id", "skill_name", "questions", "answers", "created_at").
		Values(a.ID, a.UserID, a.SkillID, a.SkillName, a.Questions, "[]", a.CreatedAt.UTC()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepo) Get(ctx context.Context, id string) (*Assessment, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("id", "user_id", "skill_id", "skill_name", "questions", "answers",
		"score", "level", "created_at", "completed_at").
		From(b.Table(assessmentsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		a         Assessment
		answers   string
		completed sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.UserID, &a.SkillID, &a.SkillName,
		&a.Questions, &answers, &a.Score, &a.Level, &a.CreatedAt, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query assessment: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	if completed.Valid {
		a.CompletedAt = completed.Time
	}
	return &a, nil
}

func (r *assessmentRepo) Complete(ctx context.Context, id string, answers []int, score float64, level int, at time.Time) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Update(assessmentsTable).
		Set("answers", string(data)).
		Set("score", score).
		Set("level", level).
		Set("completed_at", at.UTC()).
		Where(entsql.And(entsql.EQ("id", id), entsql.IsNull("completed_at"))).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("complete assessment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("assessment %q: %w", id, ErrAlreadyCompleted)
	}
	return nil
}
