package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your skill profile",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		skills, err := d.profiles.List(cmd.Context(), resolveUser(cmd))
		if err != nil {
			return fmt.Errorf("list profile: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), skills)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderProfile(skills))
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <skill> <level>",
	Short: "Self-report a skill level (0-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", args[1], err)
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := d.profiles.SelfReport(cmd.Context(), resolveUser(cmd), args[0], level)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to level %d (confidence %.2f)\n", p.SkillName, p.Level, p.Confidence)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <skill>",
	Short: "Remove a skill from your profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.profiles.Remove(cmd.Context(), resolveUser(cmd), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func init() {
	profileListCmd.Flags().Bool("json", false, "Print JSON")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileRemoveCmd)
}
