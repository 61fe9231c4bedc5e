// ABOUTME: Interactive workbench command
// ABOUTME: Starts the bubbletea UI, optionally signing in first with a hidden secret prompt
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/harperreed/marketmind/tui"
)

func (r *Runner) newTUICommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive workbench",
		Long: `Start the full-screen workbench with the dashboard, campaign, pitch, market,
lead scoring, and insight panels plus the consultant chat.

Logs go to MARKETMIND_LOG_FILE or the XDG state directory so they do not
draw over the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notifier := tui.NewNotifier()
			a, err := r.bootstrap(cmd.Context(), bootOptions{logToFile: true, hook: notifier.Hook})
			if err != nil {
				return err
			}
			defer a.close()

			coord, err := a.coordinator()
			if err != nil {
				return err
			}

			if email != "" {
				secret, err := r.readSecret(cmd)
				if err != nil {
					return err
				}
				if err := coord.Login(email, secret); err != nil {
					return fmt.Errorf("sign in failed: %w", err)
				}
			}

			p := tea.NewProgram(
				tui.NewModel(cmd.Context(), coord, notifier),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("TUI failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Sign in as this address before the UI starts")
	return cmd
}

// readSecret prompts without echo on a terminal and reads one line otherwise.
func (r *Runner) readSecret(cmd *cobra.Command) (string, error) {
	if f, ok := r.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(secret), nil
	}

	line, err := bufio.NewReader(r.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
