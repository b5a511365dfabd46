package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillsense/internal/gap"
)

var profileColumns = []string{"skill_id", "skill_name", "level", "confidence", "source", "updated_at"}

type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) Get(ctx context.Context, userID string) (map[string]gap.SkillProficiency, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(profileColumns...).
		From(b.Table(profilesTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("skill_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	defer rows.Close()

	out := make(map[string]gap.SkillProficiency)
	for rows.Next() {
		p, err := scanProficiency(rows)
		if err != nil {
			return nil, err
		}
		out[p.SkillID] = p
	}
	return out, rows.Err()
}

func (r *profileRepo) GetSkill(ctx context.Context, userID, skillID string) (gap.SkillProficiency, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(profileColumns...).
		From(b.Table(profilesTable)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("skill_id", skillID))).
		Query()

	p, err := scanProficiency(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return gap.SkillProficiency{}, fmt.Errorf("skill %q: %w", skillID, ErrNotFound)
	}
	return p, err
}

func (r *profileRepo) Upsert(ctx context.Context, userID string, p gap.SkillProficiency) error {
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(profilesTable).
		Columns(append([]string{"user_id"}, profileColumns...)...).
		Values(userID, p.SkillID, p.SkillName, p.Level, p.Confidence, string(p.Source), updated.UTC()).
		OnConflict(entsql.ConflictColumns("user_id", "skill_id"), entsql.ResolveWithNewValues()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert proficiency %q: %w", p.SkillID, err)
	}
	return nil
}

func (r *profileRepo) Delete(ctx context.Context, userID, skillID string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(profilesTable).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("skill_id", skillID))).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete proficiency %q: %w", skillID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("skill %q: %w", skillID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProficiency(s rowScanner) (gap.SkillProficiency, error) {
	var (
		p      gap.SkillProficiency
		source string
	)
	if err := s.Scan(&p.SkillID, &p.SkillName, &p.Level, &p.Confidence, &source, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan proficiency: %w", err)
	}
	p.Source = gap.Source(source)
	return p, nil
}
