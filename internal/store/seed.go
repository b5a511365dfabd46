package store

import (
	"context"
	"fmt"

	"github.com/abhisek/skillsense/internal/catalog"
)

// SeedResult counts what Seed wrote.
type SeedResult struct {
	Roles     int
	Resources int
}

// Seed upserts every role and learning resource from c. Existing rows with
// the same IDs are overwritten, so seeding is idempotent.
func (s *Store) Seed(ctx context.Context, c *catalog.Catalog) (SeedResult, error) {
	var res SeedResult

	roles := s.RoleRepo()
	for _, r := range c.Roles {
		if err := roles.Upsert(ctx, r); err != nil {
			return res, fmt.Errorf("seed roles: %w", err)
		}
		res.Roles++
	}

	resources := s.ResourceRepo()
	for _, r := range c.Resources {
		if err := resources.Upsert(ctx, r); err != nil {
			return res, fmt.Errorf("seed resources: %w", err)
		}
		res.Resources++
	}
	return res, nil
}

// EnsureSeeded seeds the built-in catalog when the store has no learning
// resources yet.
func (s *Store) EnsureSeeded(ctx context.Context) error {
	n, err := s.ResourceRepo().Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	c, err := catalog.Builtin()
	if err != nil {
		return err
	}
	_, err = s.Seed(ctx, c)
	return err
}
