package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Browse target roles",
}

var rolesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		roles, err := d.analysis.Roles(cmd.Context())
		if err != nil {
			return fmt.Errorf("list roles: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), roles)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderRoles(roles))
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d roles\n", len(roles))
		return nil
	},
}

var rolesShowCmd = &cobra.Command{
	Use:   "show <role>",
	Short: "Show a role's skill requirements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		role, err := d.analysis.Role(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), role)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderRole(role))
		return nil
	},
}

func init() {
	rolesCmd.PersistentFlags().Bool("json", false, "Print JSON")
	rolesCmd.AddCommand(rolesListCmd)
	rolesCmd.AddCommand(rolesShowCmd)
}
