package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillsense/internal/llm"
	"github.com/abhisek/skillsense/internal/ui/theme"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the career coach",
	Long: `Ask the career coach a question. With a message argument a single reply is
printed; without one an interactive session starts (empty line or "exit" quits).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.requireAI(); err != nil {
			return err
		}

		if len(args) > 0 {
			reply, err := d.coach.Chat(cmd.Context(), nil, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		}
		return runChat(cmd.Context(), d.coach, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

type chatter interface {
	Chat(ctx context.Context, history []llm.Message, message string) (string, error)
}

// runChat reads one message per line and keeps the conversation history.
// Rate limits are reported and the session continues.
func runChat(ctx context.Context, c chatter, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	var history []llm.Message

	fmt.Fprintln(w, theme.Hint.Render("Ask anything about your career. Empty line or \"exit\" to quit."))
	for {
		fmt.Fprint(w, theme.Selected.Render("you> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		msg := strings.TrimSpace(scanner.Text())
		if msg == "" || msg == "exit" || msg == "quit" {
			return nil
		}

		reply, err := c.Chat(ctx, history, msg)
		if llm.IsRateLimit(err) {
			fmt.Fprintln(w, theme.ErrorText.Render("The AI service is busy, try again shortly."))
			continue
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(w, theme.Title.Render("coach> ")+reply)
		history = append(history,
			llm.Message{Role: llm.RoleUser, Content: msg},
			llm.Message{Role: llm.RoleAssistant, Content: reply})
	}
}
