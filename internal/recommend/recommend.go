// Package recommend maps skill gaps to learning resources from the catalog.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
)

// DefaultTopN is the number of resources kept per skill.
const DefaultTopN = 3

// Recommendation is the resource shortlist for one gap.
type Recommendation struct {
	SkillID   string             `json:"skillId"`
	SkillName string             `json:"skillName"`
	Priority  gap.Priority       `json:"priority"`
	GapSize   int                `json:"gapSize"`
	Resources []catalog.Resource `json:"resources"`
}

// Options tune a Recommend call.
type Options struct {
	// TopN caps resources per skill. Defaults to DefaultTopN.
	TopN int

	// FreeOnly drops paid resources.
	FreeOnly bool
}

// ResourceSource looks up catalog resources by skill.
type ResourceSource interface {
	ForSkills(ctx context.Context, skillIDs []string) (map[string][]catalog.Resource, error)
}

// Mapper turns gaps into ranked resource recommendations.
type Mapper struct {
	resources ResourceSource
}

// NewMapper creates a Mapper over the given resource source.
func NewMapper(resources ResourceSource) *Mapper {
	return &Mapper{resources: resources}
}

// Recommend returns one Recommendation per gap, in gap order. Skills with
// no matching resources get an empty list rather than being dropped.
func (m *Mapper) Recommend(ctx context.Context, gaps []gap.SkillGap, opts Options) ([]Recommendation, error) {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}

	ids := make([]string, len(gaps))
	for i, g := range gaps {
		ids[i] = g.SkillID
	}
	bySkill, err := m.resources.ForSkills(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	out := make([]Recommendation, 0, len(gaps))
	for _, g := range gaps {
		out = append(out, Recommendation{
			SkillID:   g.SkillID,
			SkillName: g.SkillName,
			Priority:  g.Priority,
			GapSize:   g.GapSize,
			Resources: Select(bySkill[g.SkillID], g.CurrentLevel, opts),
		})
	}
	return out, nil
}

// Select filters candidates to the difficulty bands suitable for
// currentLevel and returns the best opts.TopN by quality.
func Select(candidates []catalog.Resource, currentLevel int, opts Options) []catalog.Resource {
	bands := Bands(currentLevel)

	picked := make([]catalog.Resource, 0, len(candidates))
	for _, r := range candidates {
		if !bands[r.Difficulty] {
			continue
		}
		if opts.FreeOnly && !r.Free {
			continue
		}
		picked = append(picked, r)
	}

	Rank(picked)
	if opts.TopN > 0 && len(picked) > opts.TopN {
		picked = picked[:opts.TopN]
	}
	return picked
}

// Bands returns the difficulty bands that suit a learner at level.
func Bands(level int) map[catalog.Difficulty]bool {
	switch {
	case level <= 1:
		return map[catalog.Difficulty]bool{catalog.Beginner: true}
	case level <= 3:
		return map[catalog.Difficulty]bool{catalog.Beginner: true, catalog.Intermediate: true}
	default:
		return map[catalog.Difficulty]bool{catalog.Intermediate: true, catalog.Advanced: true}
	}
}

// Quality is rating weighted by review volume.
func Quality(r catalog.Resource) float64 {
	return r.Rating * float64(r.ReviewCount)
}

// Rank sorts resources by descending quality, then rating, then title.
func Rank(rs []catalog.Resource) {
	sort.SliceStable(rs, func(i, j int) bool {
		qi, qj := Quality(rs[i]), Quality(rs[j])
		if qi != qj {
			return qi > qj
		}
		if rs[i].Rating != rs[j].Rating {
			return rs[i].Rating > rs[j].Rating
		}
		return rs[i].Title < rs[j].Title
	})
}
