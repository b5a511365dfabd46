package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/coach"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/recommend"
	"github.com/abhisek/skillsense/internal/ui/components"
	"github.com/abhisek/skillsense/internal/ui/theme"
)

const reportWidth = 72

var rule = strings.Repeat("─", reportWidth)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func priorityLabel(p gap.Priority) string {
	return lipgloss.NewStyle().Foreground(theme.PriorityColor(p)).Bold(true).
		Render(fmt.Sprintf("%-8s", strings.ToUpper(string(p))))
}

func renderReport(res gap.Result) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Gap analysis: "+res.TargetRole.Title) + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s  ·  scored %s",
		res.AnalyzedAt.Local().Format("2006-01-02 15:04"), res.Scorer)) + "\n\n")

	bar := components.NewProgressBar("Readiness", float64(res.OverallReadiness)/100, true, reportWidth)
	bar.Fill = theme.ReadinessColor(res.OverallReadiness)
	b.WriteString(bar.View() + "\n\n")

	if len(res.Gaps) == 0 {
		b.WriteString(theme.Correct.Render("You meet every requirement for this role.") + "\n")
	} else {
		fmt.Fprintf(&b, "%-8s  %-26s  %-11s  %5s  %7s\n", "Priority", "Skill", "Level", "Gap", "Hours")
		b.WriteString(rule + "\n")
		for _, g := range res.Gaps {
			fmt.Fprintf(&b, "%s  %-26s  %s  %5d  %7.1f\n",
				priorityLabel(g.Priority),
				truncate(g.SkillName, 26),
				components.LevelDots(g.CurrentLevel, gap.MaxLevel)+fmt.Sprintf(" %d/%d", g.CurrentLevel, g.RequiredLevel),
				g.GapSize,
				g.EstimatedTimeToClose)
		}
		b.WriteString(rule + "\n")
		fmt.Fprintf(&b, "%-39s  %5s  %7.1f\n", "TOTAL", "", res.TotalEstimatedHours)
	}

	if len(res.StrengthAreas) > 0 {
		b.WriteString("\n" + theme.Correct.Render("Strengths: ") + strings.Join(res.StrengthAreas, ", ") + "\n")
	}
	if len(res.ImprovementAreas) > 0 {
		b.WriteString(theme.Incorrect.Render("Focus on: ") + strings.Join(res.ImprovementAreas, ", ") + "\n")
	}
	return b.String()
}

func renderHistory(results []gap.Result) string {
	if len(results) == 0 {
		return "No analyses yet.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s  %-28s  %9s  %4s  %7s\n", "When", "Role", "Readiness", "Gaps", "Hours")
	b.WriteString(rule + "\n")
	for _, r := range results {
		fmt.Fprintf(&b, "%-16s  %-28s  %8d%%  %4d  %7.1f\n",
			r.AnalyzedAt.Local().Format("2006-01-02 15:04"),
			truncate(r.TargetRole.Title, 28),
			r.OverallReadiness, len(r.Gaps), r.TotalEstimatedHours)
	}
	return b.String()
}

func renderProfile(skills []gap.SkillProficiency) string {
	if len(skills) == 0 {
		return "No skills recorded yet. Add one with `skillsense profile set <skill> <level>`.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-26s  %-9s  %5s  %-14s  %s\n", "Skill", "Level", "Conf", "Source", "Updated")
	b.WriteString(rule + "\n")
	for _, s := range skills {
		updated := "-"
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Local().Format("2006-01-02")
		}
		fmt.Fprintf(&b, "%-26s  %s  %5.2f  %-14s  %s\n",
			truncate(s.SkillName, 26),
			components.LevelDots(s.Level, gap.MaxLevel)+fmt.Sprintf(" %d", s.Level),
			s.Confidence, s.Source, updated)
	}
	return b.String()
}

func renderRoles(roles []catalog.Role) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s  %-30s  %-12s  %s\n", "ID", "Title", "Category", "Skills")
	b.WriteString(rule + "\n")
	for _, r := range roles {
		fmt.Fprintf(&b, "%-24s  %-30s  %-12s  %d\n", r.ID, truncate(r.Title, 30), r.Category, len(r.Requirements))
	}
	return b.String()
}

func renderRole(r catalog.Role) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(r.Title) + "  " + theme.Muted.Render(r.ID) + "\n")
	if r.Description != "" {
		b.WriteString(theme.Subtitle.Render(r.Description) + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-26s  %-9s  %s\n", "Skill", "Required", "Importance")
	b.WriteString(rule + "\n")
	for _, req := range r.Requirements {
		fmt.Fprintf(&b, "%-26s  %-9d  %s\n", truncate(req.SkillName, 26), req.RequiredLevel, req.Importance)
	}
	return b.String()
}

func renderRecommendations(recs []recommend.Recommendation) string {
	if len(recs) == 0 {
		return "Nothing to recommend: no skill gaps.\n"
	}
	var b strings.Builder
	for i, rec := range recs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", priorityLabel(rec.Priority), theme.Title.Render(rec.SkillName),
			theme.Muted.Render(fmt.Sprintf("(gap %d)", rec.GapSize)))
		if len(rec.Resources) == 0 {
			b.WriteString("  " + theme.Hint.Render("no matching resources") + "\n")
			continue
		}
		for _, r := range rec.Resources {
			price := "paid"
			if r.Free {
				price = "free"
			}
			fmt.Fprintf(&b, "  • %s  %s\n", r.Title, theme.Muted.Render(fmt.Sprintf("%s · %s · %s · %.1f★ · %.0fh · %s",
				r.Provider, r.Kind, r.Difficulty, r.Rating, r.DurationHours, price)))
			fmt.Fprintf(&b, "    %s\n", theme.Hint.Render(r.URL))
		}
	}
	return b.String()
}

func renderOutcome(out assessment.Outcome) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Assessment: "+out.SkillName) + "\n")
	fmt.Fprintf(&b, "Correct:  %d/%d (%.0f%%)\n", out.Correct, out.Total, out.Score*100)
	fmt.Fprintf(&b, "Level:    %s %d\n", components.LevelDots(out.Level, gap.MaxLevel), out.Level)
	fmt.Fprintf(&b, "Profile:  %d (confidence %.2f)\n", out.ProfileLevel, out.Confidence)
	return b.String()
}

func renderCritique(c *coach.Critique) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Resume score: %d/100", c.Score)) + "\n")
	if c.Summary != "" {
		b.WriteString(c.Summary + "\n")
	}
	writeList(&b, "Strengths", c.Strengths, theme.Correct)
	writeList(&b, "Weaknesses", c.Weaknesses, theme.Incorrect)
	writeList(&b, "Suggestions", c.Suggestions, theme.Selected)
	if len(c.Skills) > 0 {
		b.WriteString("\n" + theme.Selected.Render("Detected skills") + "\n")
		for _, s := range c.Skills {
			fmt.Fprintf(&b, "  %-26s  %s\n", truncate(s.Name, 26), components.LevelDots(s.Level, gap.MaxLevel))
		}
	}
	return b.String()
}

func renderEvaluation(e *coach.Evaluation) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Answer score: %d/10", e.Score)) + "\n")
	if e.Feedback != "" {
		b.WriteString(e.Feedback + "\n")
	}
	writeList(&b, "Strengths", e.Strengths, theme.Correct)
	writeList(&b, "Improvements", e.Improvements, theme.Incorrect)
	if e.ImprovedAnswer != "" {
		b.WriteString("\n" + theme.Selected.Render("A stronger answer") + "\n")
		b.WriteString(theme.Body.Render(e.ImprovedAnswer) + "\n")
	}
	return b.String()
}

func renderInterview(role catalog.Role, qs []coach.InterviewQuestion) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Interview practice: "+role.Title) + "\n\n")
	for i, q := range qs {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, q.Question)
		fmt.Fprintf(&b, "    %s\n", theme.Muted.Render(q.Kind+" · "+q.Topic))
	}
	return b.String()
}

func renderRoadmap(r *coach.Roadmap) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Roadmap to %s (%d weeks)", r.RoleTitle, r.TotalWeeks)) + "\n")
	if r.Summary != "" {
		b.WriteString(r.Summary + "\n")
	}
	for i, p := range r.Phases {
		fmt.Fprintf(&b, "\n%s  %s\n", theme.Selected.Render(fmt.Sprintf("Phase %d: %s", i+1, p.Title)),
			theme.Muted.Render(fmt.Sprintf("%d weeks", p.Weeks)))
		if len(p.Skills) > 0 {
			fmt.Fprintf(&b, "  Skills: %s\n", strings.Join(p.Skills, ", "))
		}
		for _, m := range p.Milestones {
			fmt.Fprintf(&b, "  • %s\n", m)
		}
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string, style lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + style.Render(title) + "\n")
	for _, it := range items {
		fmt.Fprintf(b, "  • %s\n", it)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
