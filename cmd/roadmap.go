package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap [role]",
	Short: "Build a week-by-week learning roadmap from your gaps",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.requireAI(); err != nil {
			return err
		}

		ctx := cmd.Context()
		res, err := d.latestOrFor(ctx, resolveUser(cmd), args)
		if err != nil {
			return err
		}
		rm, err := d.coach.Roadmap(ctx, res)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), rm)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderRoadmap(rm))
		return nil
	},
}

func init() {
	roadmapCmd.Flags().Bool("json", false, "Print JSON")
}
