// Package catalog holds the built-in skill taxonomy, job role catalog and
// learning resource catalog. The data ships embedded in the binary and is
// seeded into the store by `skillsense catalog seed`.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/abhisek/skillsense/internal/gap"
)

//go:embed catalog.yaml
var builtin []byte

// Skill is one node of the skill taxonomy.
type Skill struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Category      string   `yaml:"category" json:"category"`
	Prerequisites []string `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
}

// Role is a target job role and its skill requirements.
type Role struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Category     string                `json:"category"`
	Requirements []gap.RoleRequirement `json:"requirements"`
}

// Ref returns the role's identity as recorded on analysis results.
func (r Role) Ref() gap.RoleRef {
	return gap.RoleRef{ID: r.ID, Title: r.Title}
}

// Kind classifies a learning resource.
type Kind string

const (
	KindCourse  Kind = "course"
	KindArticle Kind = "article"
	KindVideo   Kind = "video"
	KindBook    Kind = "book"
	KindProject Kind = "project"
)

// Difficulty is the band a learning resource targets.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Resource is one entry of the learning resource catalog.
type Resource struct {
	ID            string     `yaml:"id" json:"id"`
	SkillID       string     `yaml:"skill" json:"skillId"`
	Title         string     `yaml:"title" json:"title"`
	URL           string     `yaml:"url" json:"url"`
	Provider      string     `yaml:"provider" json:"provider"`
	Kind          Kind       `yaml:"kind" json:"kind"`
	Difficulty    Difficulty `yaml:"difficulty" json:"difficulty"`
	Rating        float64    `yaml:"rating" json:"rating"`
	ReviewCount   int        `yaml:"reviews" json:"reviewCount"`
	DurationHours float64    `yaml:"hours" json:"durationHours"`
	Free          bool       `yaml:"free" json:"free"`
}

// Catalog is the parsed, validated catalog with lookup indices.
type Catalog struct {
	Skills    []Skill
	Roles     []Role
	Resources []Resource

	skillByID map[string]*Skill
	roleByID  map[string]*Role
}

type rawRequirement struct {
	Skill      string `yaml:"skill"`
	Level      int    `yaml:"level"`
	Importance string `yaml:"importance"`
}

type rawRole struct {
	ID           string           `yaml:"id"`
	Title        string           `yaml:"title"`
	Category     string           `yaml:"category"`
	Description  string           `yaml:"description"`
	Requirements []rawRequirement `yaml:"requirements"`
}

type rawCatalog struct {
	Skills    []Skill    `yaml:"skills"`
	Roles     []rawRole  `yaml:"roles"`
	Resources []Resource `yaml:"resources"`
}

// Builtin parses the embedded catalog.
func Builtin() (*Catalog, error) {
	return Parse(builtin)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		Skills:    raw.Skills,
		Resources: raw.Resources,
		skillByID: make(map[string]*Skill, len(raw.Skills)),
		roleByID:  make(map[string]*Role, len(raw.Roles)),
	}
	for i := range c.Skills {
		c.skillByID[c.Skills[i].ID] = &c.Skills[i]
	}

	for _, rr := range raw.Roles {
		role := Role{
			ID:          rr.ID,
			Title:       rr.Title,
			Description: rr.Description,
			Category:    rr.Category,
		}
		for _, req := range rr.Requirements {
			name := req.Skill
			if s, ok := c.skillByID[req.Skill]; ok {
				name = s.Name
			}
			role.Requirements = append(role.Requirements, gap.RoleRequirement{
				SkillID:       req.Skill,
				SkillName:     name,
				RequiredLevel: req.Level,
				Importance:    gap.Importance(req.Importance),
			})
		}
		c.Roles = append(c.Roles, role)
	}
	for i := range c.Roles {
		c.roleByID[c.Roles[i].ID] = &c.Roles[i]
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Skill returns the skill with the given ID.
func (c *Catalog) Skill(id string) (Skill, bool) {
	s, ok := c.skillByID[id]
	if !ok {
		return Skill{}, false
	}
	return *s, true
}

// LookupSkill finds a skill by ID or, failing that, by case-insensitive
// display name.
func (c *Catalog) LookupSkill(key string) (Skill, bool) {
	key = strings.TrimSpace(key)
	if s, ok := c.Skill(key); ok {
		return s, true
	}
	for _, s := range c.Skills {
		if strings.EqualFold(s.Name, key) {
			return s, true
		}
	}
	return Skill{}, false
}

// Role returns the role with the given ID.
func (c *Catalog) Role(id string) (Role, bool) {
	r, ok := c.roleByID[id]
	if !ok {
		return Role{}, false
	}
	return *r, true
}

// ResourcesFor returns the resources teaching the given skill.
func (c *Catalog) ResourcesFor(skillID string) []Resource {
	var out []Resource
	for _, r := range c.Resources {
		if r.SkillID == skillID {
			out = append(out, r)
		}
	}
	return out
}

// LearningOrder sorts the given skill IDs so that every skill comes after
// its prerequisites. Skills unknown to the taxonomy keep their relative
// order and are placed after the known ones.
func (c *Catalog) LearningOrder(ids []string) []string {
	depth := make(map[string]int, len(c.Skills))
	var visit func(id string) int
	visit = func(id string) int {
		if d, ok := depth[id]; ok {
			return d
		}
		s, ok := c.skillByID[id]
		if !ok {
			return 0
		}
		depth[id] = 0
		d := 0
		for _, p := range s.Prerequisites {
			d = max(d, visit(p)+1)
		}
		depth[id] = d
		return d
	}

	var known, unknown []string
	for _, id := range ids {
		if _, ok := c.skillByID[id]; ok {
			known = append(known, id)
			visit(id)
		} else {
			unknown = append(unknown, id)
		}
	}
	sort.SliceStable(known, func(i, j int) bool {
		return depth[known[i]] < depth[known[j]]
	})
	return append(known, unknown...)
}
