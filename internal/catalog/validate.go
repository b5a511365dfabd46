package catalog

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillsense/internal/gap"
)

// validate performs all structural checks on the catalog and returns a
// combined error describing every problem found.
func (c *Catalog) validate() error {
	var errs []string

	skillSet := make(map[string]bool, len(c.Skills))
	for _, s := range c.Skills {
		if s.ID == "" {
			errs = append(errs, fmt.Sprintf("skill %q has no ID", s.Name))
		}
		if skillSet[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		skillSet[s.ID] = true
	}

	for _, s := range c.Skills {
		for _, p := range s.Prerequisites {
			if !skillSet[p] {
				errs = append(errs, fmt.Sprintf("skill %q references nonexistent prerequisite %q", s.ID, p))
			}
		}
	}

	if cycle := c.cycleNodes(); len(cycle) > 0 {
		errs = append(errs, fmt.Sprintf("cycle detected involving skills: %s", strings.Join(cycle, ", ")))
	}

	roleSet := make(map[string]bool, len(c.Roles))
	for _, r := range c.Roles {
		if roleSet[r.ID] {
			errs = append(errs, fmt.Sprintf("duplicate role ID: %q", r.ID))
		}
		roleSet[r.ID] = true

		seen := make(map[string]bool, len(r.Requirements))
		for _, req := range r.Requirements {
			prefix := fmt.Sprintf("role %q requirement %q", r.ID, req.SkillID)
			if !skillSet[req.SkillID] {
				errs = append(errs, prefix+": unknown skill")
			}
			if seen[req.SkillID] {
				errs = append(errs, prefix+": listed twice")
			}
			seen[req.SkillID] = true
			if req.RequiredLevel < gap.MinRequiredLevel || req.RequiredLevel > gap.MaxLevel {
				errs = append(errs, fmt.Sprintf("%s: level must be in [%d,%d], got %d",
					prefix, gap.MinRequiredLevel, gap.MaxLevel, req.RequiredLevel))
			}
			if !req.Importance.Valid() {
				errs = append(errs, fmt.Sprintf("%s: unknown importance %q", prefix, req.Importance))
			}
		}
	}

	resSet := make(map[string]bool, len(c.Resources))
	for _, r := range c.Resources {
		prefix := fmt.Sprintf("resource %q", r.ID)
		if resSet[r.ID] {
			errs = append(errs, "duplicate "+prefix)
		}
		resSet[r.ID] = true
		if !skillSet[r.SkillID] {
			errs = append(errs, fmt.Sprintf("%s references unknown skill %q", prefix, r.SkillID))
		}
		switch r.Difficulty {
		case Beginner, Intermediate, Advanced:
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown difficulty %q", prefix, r.Difficulty))
		}
		if r.Rating < 0 || r.Rating > 5 {
			errs = append(errs, fmt.Sprintf("%s: rating must be in [0,5], got %.1f", prefix, r.Rating))
		}
		if r.ReviewCount < 0 {
			errs = append(errs, fmt.Sprintf("%s: negative review count", prefix))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// cycleNodes runs Kahn's algorithm over the prerequisite graph and returns
// the skills left with unresolved prerequisites.
func (c *Catalog) cycleNodes() []string {
	inDegree := make(map[string]int, len(c.Skills))
	dependents := make(map[string][]string)
	for _, s := range c.Skills {
		inDegree[s.ID] = len(s.Prerequisites)
		for _, p := range s.Prerequisites {
			dependents[p] = append(dependents[p], s.ID)
		}
	}

	var queue []string
	for _, s := range c.Skills {
		if inDegree[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	var out []string
	for _, s := range c.Skills {
		if inDegree[s.ID] > 0 {
			out = append(out, s.ID)
		}
	}
	return out
}
