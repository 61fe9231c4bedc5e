// ABOUTME: One-shot generation commands: campaign, pitch, market, leads, insight
// ABOUTME: Each runs a single adapter call and prints the result
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/models"
)

func (r *Runner) newCampaignCommand() *cobra.Command {
	var in adapters.CampaignInput
	var format string
	cmd := &cobra.Command{
		Use:     "campaign",
		Short:   "Generate a marketing campaign",
		Example: `  marketmind campaign --name "Spring Launch" --audience "SMB founders" --goals "500 signups"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			a, err := r.bootstrap(cmd.Context(), bootOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			campaign, err := a.svc.GenerateCampaign(cmd.Context(), in)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), format, campaign, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s (%s, %s)\n\n%s\n", campaign.Name, campaign.Channel, campaign.Status, campaign.Content)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Campaign or product name (required)")
	cmd.Flags().StringVar(&in.Audience, "audience", "", "Target audience")
	cmd.Flags().StringVar(&in.Goals, "goals", "", "Campaign goals")
	addFormatFlag(cmd, &format)
	return cmd
}

func (r *Runner) newPitchCommand() *cobra.Command {
	var in adapters.PitchInput
	var format string
	cmd := &cobra.Command{
		Use:     "pitch",
		Short:   "Write a sales pitch for a persona and product",
		Example: `  marketmind pitch --persona "Hospital CFO" --product "Scheduling software"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			a, err := r.bootstrap(cmd.Context(), bootOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			pitch, err := a.svc.GenerateSalesPitch(cmd.Context(), in)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), format, pitch, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s\n\n%s\n", pitch.Title, pitch.Pitch)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&in.Persona, "persona", "", "Buyer persona (required)")
	cmd.Flags().StringVar(&in.Product, "product", "", "Product or service (required)")
	addFormatFlag(cmd, &format)
	return cmd
}

func (r *Runner) newMarketCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "market <topic>",
		Short:   "Analyze a market with live search grounding",
		Example: `  marketmind market "EV charging in Europe"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			a, err := r.bootstrap(cmd.Context(), bootOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			insight, err := a.svc.AnalyzeMarket(cmd.Context(), adapters.MarketInput{Topic: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), format, insight, func(w io.Writer) error {
				return printMarket(w, insight)
			})
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func printMarket(w io.Writer, insight *models.MarketInsight) error {
	if _, err := fmt.Fprintf(w, "%s\n", insight.Summary); err != nil {
		return err
	}
	if len(insight.Sources) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w, "\nSources:")
	for i, src := range insight.Sources {
		if _, err := fmt.Fprintf(w, "  %d. %s <%s>\n", i+1, src.Title, src.URI); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) newLeadsCommand() *cobra.Command {
	var sample bool
	var format string
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Score leads read from stdin",
		Long: `Score free-text leads, one or more per line, read from stdin.
Each lead gets a 0-100 score and a hot, warm, or cold status.`,
		Example: `  marketmind leads < leads.txt
  marketmind leads --sample --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			data := adapters.SampleLeads
			if !sample {
				raw, err := io.ReadAll(r.stdin)
				if err != nil {
					return fmt.Errorf("failed to read leads: %w", err)
				}
				data = string(raw)
			}

			a, err := r.bootstrap(cmd.Context(), bootOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			leads, err := a.svc.ScoreLeads(cmd.Context(), adapters.LeadInput{Data: data})
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), format, leads, func(w io.Writer) error {
				return printLeads(w, leads)
			})
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "Score the built-in sample leads instead of stdin")
	addFormatFlag(cmd, &format)
	return cmd
}

func printLeads(out io.Writer, leads []models.Lead) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCOMPANY\tSTATUS\tSCORE\tREASONING")
	_, _ = fmt.Fprintln(w, "----\t-------\t------\t-----\t---------")
	for _, l := range leads {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%s\n", l.Name, l.Company, l.Status, l.Score, l.Reasoning)
	}
	return w.Flush()
}

func (r *Runner) newInsightCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "insight [topic]",
		Short: "Get a two-sentence sales or marketing insight",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			a, err := r.bootstrap(cmd.Context(), bootOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			topic := strings.Join(args, " ")
			if topic == "" {
				topic = a.cfg.InsightTopic
			}
			text, err := a.svc.QuickInsight(cmd.Context(), topic)
			if err != nil {
				return err
			}
			out := map[string]string{"topic": topic, "insight": text}
			return write(cmd.OutOrStdout(), format, out, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, text)
				return err
			})
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}
