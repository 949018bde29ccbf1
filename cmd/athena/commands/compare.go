// ABOUTME: CLI command to compare two documents
// ABOUTME: Reports mean similarity, the closest passage pairs, and an optional narrative
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aniruddha1321/Athena/internal/assistant"
)

var (
	compareNoSummary bool
)

// NewCompareCmd creates the compare command
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <fileA> <fileB>",
		Short: "Compare two documents",
		Long: `Compare two documents by chunk-level semantic similarity.

Reports an overall similarity in [0,1], the closest passage pairs, and
(when a chat backend is configured) a narrative comparison.

Examples:
  athena compare draft-v1.md draft-v2.md
  athena compare --no-summary a.txt b.txt`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().BoolVar(&compareNoSummary, "no-summary", false, "Skip the LLM narrative")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	textA, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	textB, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[1], err)
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	generator := a.generator
	if compareNoSummary {
		generator = nil
	}
	comparer := assistant.NewComparer(a.embedder, generator)

	labelA := filepath.Base(args[0])
	labelB := filepath.Base(args[1])
	result, err := comparer.Compare(cmd.Context(), labelA, string(textA), labelB, string(textB))
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Similarity: %.3f\n", result.MeanSimilarity)

	if len(result.TopPairs) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nClosest passages:")
		for _, pair := range result.TopPairs {
			fmt.Fprintf(cmd.OutOrStdout(), "  %.3f  %s\n         %s\n",
				pair.Similarity, truncate(pair.A.Text, 60), truncate(pair.B.Text, 60))
		}
	}
	if result.Summary != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", result.Summary)
	}
	return nil
}
