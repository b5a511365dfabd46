package catalog

import (
	"testing"

	"github.com/abhisek/skillsense/internal/gap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Skills)
	assert.Len(t, c.Roles, 5)
	assert.NotEmpty(t, c.Resources)

	backend, ok := c.Role("backend-developer")
	require.True(t, ok)
	assert.Equal(t, "Backend Developer", backend.Title)
	require.NotEmpty(t, backend.Requirements)
	assert.Equal(t, "Go", backend.Requirements[0].SkillName)
	assert.Equal(t, gap.MustHave, backend.Requirements[0].Importance)

	_, ok = c.Role("astronaut")
	assert.False(t, ok)
}

func TestBuiltin_EveryRequiredSkillHasResources(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	for _, r := range c.Roles {
		for _, req := range r.Requirements {
			assert.NotEmpty(t, c.ResourcesFor(req.SkillID), "%s/%s", r.ID, req.SkillID)
		}
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "dangling prerequisite",
			doc: `
skills:
  - {id: a, name: A, prerequisites: [missing]}
`,
			want: `nonexistent prerequisite "missing"`,
		},
		{
			name: "cycle",
			doc: `
skills:
  - {id: a, name: A, prerequisites: [b]}
  - {id: b, name: B, prerequisites: [a]}
`,
			want: "cycle detected involving skills: a, b",
		},
		{
			name: "requirement level out of range",
			doc: `
skills:
  - {id: a, name: A}
roles:
  - id: r
    title: R
    requirements:
      - {skill: a, level: 0, importance: must_have}
`,
			want: "level must be in [1,5], got 0",
		},
		{
			name: "bad importance",
			doc: `
skills:
  - {id: a, name: A}
roles:
  - id: r
    title: R
    requirements:
      - {skill: a, level: 2, importance: optional}
`,
			want: `unknown importance "optional"`,
		},
		{
			name: "resource for unknown skill",
			doc: `
skills:
  - {id: a, name: A}
resources:
  - {id: x, skill: b, title: X, difficulty: beginner, rating: 4}
`,
			want: `references unknown skill "b"`,
		},
		{
			name: "unknown difficulty",
			doc: `
skills:
  - {id: a, name: A}
resources:
  - {id: x, skill: a, title: X, difficulty: expert, rating: 4}
`,
			want: `unknown difficulty "expert"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_RoleWithoutRequirements(t *testing.T) {
	c, err := Parse([]byte(`
skills:
  - {id: a, name: A}
roles:
  - {id: empty, title: Empty}
`))
	require.NoError(t, err)
	r, ok := c.Role("empty")
	require.True(t, ok)
	assert.Empty(t, r.Requirements)
}

func TestLearningOrder(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	got := c.LearningOrder([]string{"kubernetes", "rust", "docker", "linux"})
	assert.Equal(t, []string{"linux", "docker", "kubernetes", "rust"}, got)

	got = c.LearningOrder([]string{"react", "javascript"})
	assert.Equal(t, []string{"javascript", "react"}, got)
}

func TestLookupSkill(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	s, ok := c.LookupSkill("nodejs")
	require.True(t, ok)
	assert.Equal(t, "Node.js", s.Name)

	s, ok = c.LookupSkill("  node.JS ")
	require.True(t, ok)
	assert.Equal(t, "nodejs", s.ID)

	_, ok = c.LookupSkill("cobol")
	assert.False(t, ok)
}
