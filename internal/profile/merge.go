// Package profile holds the policy for folding new proficiency
// observations into a user's skill profile.
package profile

import (
	"math"
	"strings"
	"time"

	"github.com/abhisek/skillsense/internal/gap"
)

// Merge folds next into prev. The first observation for a skill is taken
// as-is. Later ones are blended by a confidence-weighted average of the two
// levels, rounded half-up; the merged confidence is the higher of the two
// and the source is the newer observation's.
func Merge(prev *gap.SkillProficiency, next gap.SkillProficiency) gap.SkillProficiency {
	if prev == nil {
		return normalize(next)
	}
	if next.SkillName == "" {
		next.SkillName = prev.SkillName
	}
	next = normalize(next)

	out := next

	wPrev, wNext := prev.Confidence, next.Confidence
	if wPrev+wNext == 0 {
		wPrev, wNext = 1, 1
	}
	avg := (float64(prev.Level)*wPrev + float64(next.Level)*wNext) / (wPrev + wNext)
	out.Level = clampLevel(int(math.Floor(avg + 0.5)))
	out.Confidence = max(prev.Confidence, next.Confidence)
	return out
}

// Observation builds a proficiency record stamped with now.
func Observation(skillID, skillName string, level int, confidence float64, src gap.Source, now time.Time) gap.SkillProficiency {
	return normalize(gap.SkillProficiency{
		SkillID:    skillID,
		SkillName:  skillName,
		Level:      level,
		Confidence: confidence,
		Source:     src,
		UpdatedAt:  now.UTC(),
	})
}

// SelfReportConfidence is the confidence attached to levels a user enters
// by hand.
const SelfReportConfidence = 0.3

// SkillID derives a stable identifier from a display name, so "Node.js"
// and "node.js " land on the same record.
func SkillID(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '#':
			b.WriteRune(r)
			dash = false
		case r == '.':
			b.WriteString("dot")
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func normalize(p gap.SkillProficiency) gap.SkillProficiency {
	p.Level = clampLevel(p.Level)
	p.Confidence = math.Min(math.Max(p.Confidence, 0), 1)
	if p.SkillName == "" {
		p.SkillName = p.SkillID
	}
	return p
}

func clampLevel(l int) int {
	return min(max(l, gap.MinLevel), gap.MaxLevel)
}
