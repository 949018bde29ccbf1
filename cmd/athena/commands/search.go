// ABOUTME: CLI command for semantic search over a corpus
// ABOUTME: Prints ranked passages with similarity scores as a table or JSON
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <corpus> <query>",
		Short: "Search a corpus for relevant passages",
		Long: `Search a corpus for the passages most relevant to a query.

Results are ranked by similarity; scores are normalized to [0,1].

Examples:
  athena search papers "attention mechanisms"
  athena search --limit 10 notes "deployment checklist"
  athena search --format json papers "positional encoding"`,
		Args: cobra.ExactArgs(2),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}
	corpusName, query := args[0], args[1]

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	corpusID, err := a.openCorpus(ctx, corpusName)
	if err != nil {
		return err
	}

	results, err := a.retriever.Retrieve(ctx, corpusID, query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching corpus: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), results)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tSCORE\tCHUNK\tTEXT\n")
	fmt.Fprintf(w, "----\t-----\t-----\t----\n")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%d\t%s\n",
			r.Rank, r.Score, r.Chunk.ID, truncate(r.Chunk.Text, 70))
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
	return nil
}
