package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillsense/internal/config"
	"github.com/abhisek/skillsense/internal/store"
)

// appConfig is loaded once per invocation in PersistentPreRunE.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "skillsense",
	Short: "Skill gap analysis and AI career coaching",
	Long: `SkillSense compares your skills against a target role, tells you what to
learn next and, when an LLM provider is configured, assesses skills, reviews
resumes and coaches you through interviews.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		appConfig = c
		config.SetupLogger(c.App.LogLevel, os.Stderr)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides storage.db_path)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a catalog YAML file (defaults to the built-in catalog)")
	rootCmd.PersistentFlags().StringP("user", "u", defaultUser(), "User ID for local commands (or SKILLSENSE_USER)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultUser() string {
	if u := os.Getenv("SKILLSENSE_USER"); u != "" {
		return u
	}
	return "local"
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then storage.db_path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if appConfig != nil && appConfig.Storage.DBPath != "" {
		return appConfig.Storage.DBPath, store.EnsureDir(appConfig.Storage.DBPath)
	}
	return store.DefaultDBPath()
}

func resolveUser(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("user")
	if u == "" {
		return defaultUser()
	}
	return u
}
