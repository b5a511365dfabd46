package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillsense/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [role]",
	Short: "Recommend learning resources for your skill gaps",
	Long: `Recommend learning resources for each gap, in priority order.

Without a role the most recent analysis is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")
		free, _ := cmd.Flags().GetBool("free")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		res, err := d.latestOrFor(ctx, resolveUser(cmd), args)
		if err != nil {
			return err
		}

		recs, err := d.mapper.Recommend(ctx, res.Gaps, recommend.Options{TopN: top, FreeOnly: free})
		if err != nil {
			return fmt.Errorf("recommend: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), recs)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Learning plan for %s\n\n", res.TargetRole.Title)
		fmt.Fprint(cmd.OutOrStdout(), renderRecommendations(recs))
		return nil
	},
}

func init() {
	recommendCmd.Flags().Int("top", recommend.DefaultTopN, "Resources per skill")
	recommendCmd.Flags().Bool("free", false, "Only free resources")
	recommendCmd.Flags().Bool("json", false, "Print JSON")
}
