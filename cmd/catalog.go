package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/store"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the skill, role and resource catalog",
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the catalog into the database",
	Long:  "Upsert roles and resources from --catalog (or the built-in catalog) into the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		res, err := st.Seed(cmd.Context(), c)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d roles and %d resources into %s\n", res.Roles, res.Resources, dbPath)
		return nil
	},
}

var catalogSkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List catalog skills (optionally filtered by category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		c, _, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		skills := filterSkills(c.Skills, category)
		if len(skills) == 0 {
			return fmt.Errorf("no skills found for category %q", category)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderSkills(skills))
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d skills\n", len(skills))
		return nil
	},
}

func filterSkills(skills []catalog.Skill, category string) []catalog.Skill {
	if category == "" {
		return skills
	}
	var out []catalog.Skill
	for _, s := range skills {
		if strings.EqualFold(s.Category, category) {
			out = append(out, s)
		}
	}
	return out
}

func renderSkills(skills []catalog.Skill) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s  %-26s  %-14s  %s\n", "ID", "Name", "Category", "Prerequisites")
	b.WriteString(rule + "\n")
	for _, s := range skills {
		fmt.Fprintf(&b, "%-20s  %-26s  %-14s  %s\n",
			s.ID, truncate(s.Name, 26), s.Category, strings.Join(s.Prerequisites, ", "))
	}
	return b.String()
}

func init() {
	catalogSkillsCmd.Flags().String("category", "", "Filter by category (e.g. devops)")

	catalogCmd.AddCommand(catalogSeedCmd)
	catalogCmd.AddCommand(catalogSkillsCmd)
}
