package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/ui/assess"
)

var assessCmd = &cobra.Command{
	Use:   "assess [skill]",
	Short: "Take an AI-generated skill assessment",
	Long: `Generate a multiple-choice quiz for a skill, answer it and record the
resulting level in your profile.

Runs the interactive terminal UI by default. --plain reads answers line by
line from stdin instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		plain, _ := cmd.Flags().GetBool("plain")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.requireAI(); err != nil {
			return err
		}

		var skill string
		if len(args) > 0 {
			skill = args[0]
		}
		ctx := cmd.Context()
		userID := resolveUser(cmd)

		if plain {
			if skill == "" {
				return errors.New("--plain needs a skill argument")
			}
			out, err := runPlainQuiz(ctx, d.assessment, userID, skill, count, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), "\n"+renderOutcome(out))
			return nil
		}

		out, done, err := assess.Run(ctx, d.assessment, assess.Options{UserID: userID, Skill: skill, Count: count})
		if err != nil {
			return err
		}
		if done {
			fmt.Fprint(cmd.OutOrStdout(), renderOutcome(out))
		}
		return nil
	},
}

func init() {
	assessCmd.Flags().IntP("count", "n", 0, "Number of questions (defaults to the service default)")
	assessCmd.Flags().Bool("plain", false, "Answer on stdin without the terminal UI")
}

// runPlainQuiz asks each question on w and reads a letter answer per line
// from r. An empty line skips the question.
func runPlainQuiz(ctx context.Context, a assess.Assessor, userID, skill string, count int, r io.Reader, w io.Writer) (assessment.Outcome, error) {
	fmt.Fprintf(w, "Generating questions for %s...\n\n", skill)
	quiz, err := a.Start(ctx, userID, skill, count)
	if err != nil {
		return assessment.Outcome{}, fmt.Errorf("generate quiz: %w", err)
	}

	scanner := bufio.NewScanner(r)
	answers := make([]int, len(quiz.Questions))
	for i, q := range quiz.PublicQuestions() {
		fmt.Fprintf(w, "Q%d. %s\n", i+1, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(w, "   %c) %s\n", 'A'+j, opt)
		}
		answers[i] = readChoice(scanner, w, len(q.Options))
		fmt.Fprintln(w)
	}

	return a.Complete(ctx, userID, quiz, answers)
}

func readChoice(scanner *bufio.Scanner, w io.Writer, n int) int {
	for {
		fmt.Fprint(w, "Answer: ")
		if !scanner.Scan() {
			return assessment.Unanswered
		}
		in := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if in == "" {
			return assessment.Unanswered
		}
		if len(in) == 1 && in[0] >= 'a' && int(in[0]-'a') < n {
			return int(in[0] - 'a')
		}
		fmt.Fprintf(w, "Enter a letter from A to %c, or leave empty to skip.\n", 'A'+n-1)
	}
}
