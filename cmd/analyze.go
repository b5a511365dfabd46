package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <role>",
	Short: "Run a skill gap analysis against a target role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := d.analysis.Analyze(cmd.Context(), resolveUser(cmd), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderReport(res))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past gap analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		results, err := d.analysis.History(cmd.Context(), resolveUser(cmd), limit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), results)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderHistory(results))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "Print the result as JSON")

	historyCmd.Flags().IntP("limit", "n", 10, "Number of analyses to show")
	historyCmd.Flags().Bool("json", false, "Print JSON")
}
