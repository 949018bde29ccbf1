// ABOUTME: CLI command for topic research
// ABOUTME: Combines web search, Arxiv papers, and LLM synthesis into a report
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	researchOffline bool
)

// NewResearchCmd creates the research command
func NewResearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research <topic>",
		Short: "Research a topic",
		Long: `Research a topic by combining web search results, Arxiv papers, and
LLM synthesis into a summary with sources.

With --offline (or ATHENA_OFFLINE=true), external sources are skipped
and the summary comes from the model alone.

Examples:
  athena research "retrieval augmented generation"
  athena research --offline "vector databases"`,
		Args: cobra.ExactArgs(1),
		RunE: runResearch,
	}

	cmd.Flags().BoolVar(&researchOffline, "offline", false, "Skip web and Arxiv sources")

	return cmd
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic := args[0]

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	offline := researchOffline || a.cfg.Offline
	researcher := a.newResearcher(offline)

	report, err := researcher.Research(cmd.Context(), topic)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), report)
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Summary)

	if len(report.Web) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nWeb sources:")
		for _, r := range report.Web {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n    %s\n", r.Title, r.URL)
		}
	}
	if len(report.Papers) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nPapers:")
		for _, r := range report.Papers {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n    %s\n", r.Title, r.URL)
		}
	}
	return nil
}
