package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every skill from your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this deletes your whole skill profile; re-run with --yes to confirm")
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		userID := resolveUser(cmd)
		skills, err := d.profiles.List(ctx, userID)
		if err != nil {
			return fmt.Errorf("list profile: %w", err)
		}
		for _, s := range skills {
			if err := d.profiles.Remove(ctx, userID, s.SkillID); err != nil {
				return fmt.Errorf("remove %s: %w", s.SkillID, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d skills for %s\n", len(skills), userID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
