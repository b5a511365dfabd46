package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
)

var roleColumns = []string{"id", "title", "description", "category", "requirements"}

type roleRepo struct {
	db *sql.DB
}

func (r *roleRepo) List(ctx context.Context) ([]catalog.Role, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(roleColumns...).
		From(b.Table(rolesTable)).
		OrderBy("title").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var out []catalog.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *roleRepo) Get(ctx context.Context, id string) (catalog.Role, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(roleColumns...).
		From(b.Table(rolesTable)).
		Where(entsql.EQ("id", id)).
		Query()

	role, err := scanRole(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Role{}, fmt.Errorf("role %q: %w", id, ErrNotFound)
	}
	return role, err
}

func (r *roleRepo) Upsert(ctx context.Context, role catalog.Role) error {
	reqs := role.Requirements
	if reqs == nil {
		reqs = []gap.RoleRequirement{}
	}
	data, err := json.Marshal(reqs)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(rolesTable).
		Columns(roleColumns...).
		Values(role.ID, role.Title, role.Description, role.Category, string(data)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert role %q: %w", role.ID, err)
	}
	return nil
}

func scanRole(s rowScanner) (catalog.Role, error) {
	var (
		role catalog.Role
		reqs string
	)
	if err := s.Scan(&role.ID, &role.Title, &role.Description, &role.Category, &reqs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return role, err
		}
		return role, fmt.Errorf("scan role: %w", err)
	}
	if err := json.Unmarshal([]byte(reqs), &role.Requirements); err != nil {
		return role, fmt.Errorf("unmarshal requirements for role %q: %w", role.ID, err)
	}
	return role, nil
}
