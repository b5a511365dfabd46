package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Practice interview questions",
}

var interviewQuestionsCmd = &cobra.Command{
	Use:   "questions <role>",
	Short: "Generate interview questions for a role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.requireAI(); err != nil {
			return err
		}

		ctx := cmd.Context()
		role, err := d.analysis.Role(ctx, args[0])
		if err != nil {
			return err
		}
		qs, err := d.coach.InterviewQuestions(ctx, role, count)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), qs)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderInterview(role, qs))
		return nil
	},
}

var interviewEvaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Grade an answer to an interview question",
	RunE: func(cmd *cobra.Command, args []string) error {
		question, _ := cmd.Flags().GetString("question")
		answer, _ := cmd.Flags().GetString("answer")
		if question == "" || answer == "" {
			return errors.New("--question and --answer are required")
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.requireAI(); err != nil {
			return err
		}

		eval, err := d.coach.EvaluateAnswer(cmd.Context(), question, answer)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), eval)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderEvaluation(eval))
		return nil
	},
}

func init() {
	interviewCmd.PersistentFlags().Bool("json", false, "Print JSON")

	interviewQuestionsCmd.Flags().IntP("count", "n", 5, "Number of questions")
	interviewEvaluateCmd.Flags().StringP("question", "q", "", "The interview question")
	interviewEvaluateCmd.Flags().StringP("answer", "a", "", "Your answer")

	interviewCmd.AddCommand(interviewQuestionsCmd)
	interviewCmd.AddCommand(interviewEvaluateCmd)
}
