// ABOUTME: CLI command to list and delete corpora
// ABOUTME: Shows registered corpora with document counts and ages
package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCorporaCmd creates the corpora command
func NewCorporaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpora",
		Short: "List registered corpora",
		Long: `List registered corpora with their document counts.

Examples:
  athena corpora
  athena corpora --format json
  athena corpora delete papers`,
		RunE: runCorpora,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <corpus>",
		Short: "Delete a corpus and its documents",
		Args:  cobra.ExactArgs(1),
		RunE:  runCorporaDelete,
	})

	return cmd
}

func runCorpora(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	corpora, err := a.corpora.ListCorpora(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing corpora: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), corpora)
	}

	if len(corpora) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No corpora yet. Ingest a document with 'athena ingest'.")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tDOCUMENTS\tCREATED\n")
	fmt.Fprintf(w, "----\t---------\t-------\n")
	for _, c := range corpora {
		fmt.Fprintf(w, "%s\t%d\t%s\n", c.Name, c.DocumentCount, formatTime(c.CreatedAt))
	}
	return w.Flush()
}

func runCorporaDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	corpus, err := a.corpora.GetCorpusByName(ctx, name)
	if err != nil {
		return err
	}
	if corpus == nil {
		return fmt.Errorf("corpus %q does not exist", name)
	}

	if err := a.corpora.DeleteCorpus(ctx, corpus.ID); err != nil {
		return fmt.Errorf("deleting corpus: %w", err)
	}
	a.retriever.Drop(corpus.ID)
	if err := os.Remove(snapshotPath(corpus.ID)); err != nil && !os.IsNotExist(err) && verbose {
		fmt.Fprintf(os.Stderr, "Warning: could not remove snapshot: %v\n", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted corpus %q\n", name)
	}
	return nil
}
