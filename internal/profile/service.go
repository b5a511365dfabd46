package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/store"
)

// Service reads and updates skill profiles, applying the merge policy on
// every write.
type Service struct {
	repo    store.ProfileRepo
	catalog *catalog.Catalog
	now     func() time.Time

	onChange []func(userID string)
}

// NewService creates a profile service. c may be nil, in which case skill
// names are never resolved against the taxonomy.
func NewService(repo store.ProfileRepo, c *catalog.Catalog) *Service {
	return &Service{repo: repo, catalog: c, now: time.Now}
}

// OnChange registers fn to run after every successful write to a user's
// profile.
func (s *Service) OnChange(fn func(userID string)) {
	s.onChange = append(s.onChange, fn)
}

func (s *Service) changed(userID string) {
	for _, fn := range s.onChange {
		fn(userID)
	}
}

// Skills returns the user's profile keyed by skill ID.
func (s *Service) Skills(ctx context.Context, userID string) (map[string]gap.SkillProficiency, error) {
	return s.repo.Get(ctx, userID)
}

// List returns the user's profile sorted by skill name.
func (s *Service) List(ctx context.Context, userID string) ([]gap.SkillProficiency, error) {
	skills, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]gap.SkillProficiency, 0, len(skills))
	for _, p := range skills {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SkillName < out[j].SkillName
	})
	return out, nil
}

// Resolve maps free-form skill input to a skill ID and display name,
// preferring the taxonomy's entry when there is one.
func (s *Service) Resolve(skill string) (id, name string) {
	if s.catalog != nil {
		if sk, ok := s.catalog.LookupSkill(skill); ok {
			return sk.ID, sk.Name
		}
	}
	return SkillID(skill), skill
}

// Record merges obs into the stored proficiency for its skill and returns
// the merged record.
func (s *Service) Record(ctx context.Context, userID string, obs gap.SkillProficiency) (gap.SkillProficiency, error) {
	if obs.SkillID == "" {
		return gap.SkillProficiency{}, fmt.Errorf("record proficiency: empty skill id")
	}
	if obs.UpdatedAt.IsZero() {
		obs.UpdatedAt = s.now().UTC()
	}

	var prev *gap.SkillProficiency
	cur, err := s.repo.GetSkill(ctx, userID, obs.SkillID)
	switch {
	case err == nil:
		prev = &cur
	case !errors.Is(err, store.ErrNotFound):
		return gap.SkillProficiency{}, err
	}

	merged := Merge(prev, obs)
	if err := s.repo.Upsert(ctx, userID, merged); err != nil {
		return gap.SkillProficiency{}, err
	}
	s.changed(userID)
	return merged, nil
}

// SelfReport records a level the user entered by hand.
func (s *Service) SelfReport(ctx context.Context, userID, skill string, level int) (gap.SkillProficiency, error) {
	if level < gap.MinLevel || level > gap.MaxLevel {
		return gap.SkillProficiency{}, fmt.Errorf("level %d out of range %d-%d: %w",
			level, gap.MinLevel, gap.MaxLevel, gap.ErrInvalidInput)
	}
	id, name := s.Resolve(skill)
	if id == "" {
		return gap.SkillProficiency{}, fmt.Errorf("empty skill name: %w", gap.ErrInvalidInput)
	}
	return s.Record(ctx, userID, Observation(id, name, level, SelfReportConfidence, gap.SourceSelfReport, s.now()))
}

// Remove deletes one skill from the user's profile.
func (s *Service) Remove(ctx context.Context, userID, skill string) error {
	id, _ := s.Resolve(skill)
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.changed(userID)
	return nil
}
