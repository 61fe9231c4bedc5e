// ABOUTME: Consultant chat command
// ABOUTME: Answers one question from args, or runs a line-by-line conversation over stdin
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/models"
)

func (r *Runner) newChatCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Talk to the sales and marketing strategy consultant",
		Long: `With a question, prints one answer. Without one, reads questions line by line
from stdin and keeps the conversation history until EOF.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			a, err := r.bootstrap(cmd.Context(), bootOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			history := []models.ChatMessage{{Role: models.RoleModel, Text: adapters.ChatGreeting, Timestamp: time.Now()}}

			if len(args) > 0 {
				reply, err := a.svc.Chat(cmd.Context(), history, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return write(out, format, reply, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, reply.Text)
					return err
				})
			}

			if format == formatText {
				_, _ = fmt.Fprintln(out, adapters.ChatGreeting)
			}
			scanner := bufio.NewScanner(r.stdin)
			for scanner.Scan() {
				message := strings.TrimSpace(scanner.Text())
				if message == "" {
					continue
				}
				reply, err := a.svc.Chat(cmd.Context(), history, message)
				if err != nil {
					a.logger.Warn("chat exchange failed", zap.Error(err))
					fallback := models.ChatMessage{Role: models.RoleModel, Text: adapters.ChatFallback, Timestamp: time.Now()}
					reply = &fallback
				}
				history = append(history,
					models.ChatMessage{Role: models.RoleUser, Text: message, Timestamp: time.Now()},
					*reply,
				)
				if err := write(out, format, reply, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "\n%s\n\n", reply.Text)
					return err
				}); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}
