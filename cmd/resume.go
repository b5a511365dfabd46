package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/resume"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <file>",
	Short: "Get AI feedback on a resume (PDF, DOCX or text)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roleID, _ := cmd.Flags().GetString("role")
		doImport, _ := cmd.Flags().GetBool("import")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read resume: %w", err)
		}
		text, err := resume.ExtractText(resume.MIMEFromName(args[0]), data, appConfig.Resume.MaxRunes)
		if err != nil {
			return err
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.requireAI(); err != nil {
			return err
		}

		ctx := cmd.Context()
		var role *catalog.Role
		if roleID != "" {
			r, err := d.analysis.Role(ctx, roleID)
			if err != nil {
				return err
			}
			role = &r
		}

		critique, err := d.coach.CritiqueResume(ctx, text, role)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), critique)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderCritique(critique))

		if doImport && len(critique.Skills) > 0 {
			imported, err := d.coach.ImportSkills(ctx, resolveUser(cmd), critique.Skills)
			if err != nil {
				return fmt.Errorf("import skills: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nImported %d skills into your profile.\n", len(imported))
		}
		return nil
	},
}

func init() {
	resumeCmd.Flags().String("role", "", "Tailor the review to a target role")
	resumeCmd.Flags().Bool("import", false, "Add detected skills to your profile")
	resumeCmd.Flags().Bool("json", false, "Print JSON")
}
