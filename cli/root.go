// ABOUTME: Cobra command tree for the marketmind binary
// ABOUTME: Wires config, logging, the gateway, and adapters for every subcommand
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/config"
	"github.com/harperreed/marketmind/coordinator"
	"github.com/harperreed/marketmind/gateway"
	"github.com/harperreed/marketmind/logging"
	"github.com/harperreed/marketmind/session"
)

// Runner holds what the commands share. Tests swap the backend.
type Runner struct {
	version  string
	backend  gateway.Backend
	stdin    io.Reader
	logLevel string
}

type Option func(*Runner)

// WithBackend replaces the Gemini client, so no API key is needed.
func WithBackend(b gateway.Backend) Option {
	return func(r *Runner) { r.backend = b }
}

// WithStdin sets where chat and secret prompts read from.
func WithStdin(in io.Reader) Option {
	return func(r *Runner) { r.stdin = in }
}

// NewRootCommand builds the full command tree.
func NewRootCommand(version string, opts ...Option) *cobra.Command {
	r := &Runner{version: version, stdin: os.Stdin}
	for _, opt := range opts {
		opt(r)
	}

	root := &cobra.Command{
		Use:   "marketmind",
		Short: "AI sales and marketing workbench",
		Long: `MarketMind generates campaigns, sales pitches, market analyses, lead scores,
and strategy advice with Gemini models.

Run 'marketmind tui' for the interactive workbench, 'marketmind serve' for the
HTTP API, or 'marketmind mcp' to expose the tools to an MCP client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "Log level (default: MARKETMIND_LOG_LEVEL or info)")

	root.AddCommand(
		r.newTUICommand(),
		r.newServeCommand(),
		r.newMCPCommand(),
		r.newCampaignCommand(),
		r.newPitchCommand(),
		r.newMarketCommand(),
		r.newLeadsCommand(),
		r.newInsightCommand(),
		r.newChatCommand(),
		r.newVersionCommand(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (r *Runner) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "marketmind version %s\n", r.version)
		},
	}
}

// app is the process-wide stack every command starts from.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	svc      *adapters.Service
}

type bootOptions struct {
	// logToFile sends logs to the configured or default log file.
	logToFile bool
	hook      gateway.CredentialHook
}

func (r *Runner) bootstrap(ctx context.Context, opts bootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	backend := r.backend
	if backend == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		backend, err = gateway.NewGenAIBackend(ctx, cfg.APIKey)
		if err != nil {
			return nil, err
		}
	}

	level := cfg.LogLevel
	if r.logLevel != "" {
		level = r.logLevel
	}
	logFile := cfg.LogFile
	if logFile == "" && opts.logToFile {
		logFile = config.DefaultLogFile()
	}
	logger, err := logging.New(logging.Options{Level: level, File: logFile})
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	gwOpts := []gateway.Option{gateway.WithMetrics(gateway.NewMetrics(registry))}
	if opts.hook != nil {
		gwOpts = append(gwOpts, gateway.WithCredentialHook(opts.hook))
	}
	gw := gateway.New(backend, logger, gwOpts...)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		svc:      adapters.New(gw, cfg.Models, adapters.WithChatThinkingBudget(cfg.ChatThinkingBudget)),
	}, nil
}

// coordinator builds the single view coordinator for an interactive surface.
func (a *app) coordinator() (*coordinator.Coordinator, error) {
	gate, err := session.NewGate(a.cfg.EmailDomain)
	if err != nil {
		return nil, err
	}
	return coordinator.New(gate, a.svc, a.logger, coordinator.WithInsightTopic(a.cfg.InsightTopic)), nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
