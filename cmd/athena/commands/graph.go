// ABOUTME: CLI command to build a knowledge graph from a corpus
// ABOUTME: Prints top entities by centrality or the full graph in DOT format
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aniruddha1321/Athena/internal/knowledge"
	"github.com/aniruddha1321/Athena/internal/retrieval"
)

var (
	graphDOT bool
	graphTop int
)

// NewGraphCmd creates the graph command
func NewGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <corpus>",
		Short: "Build a knowledge graph from a corpus",
		Long: `Extract a knowledge graph from a corpus: entities are capitalized
phrases, edges connect entities that share a chunk, and centrality is
the weighted degree.

Examples:
  athena graph papers
  athena graph --top 20 papers
  athena graph --dot papers > graph.dot`,
		Args: cobra.ExactArgs(1),
		RunE: runGraph,
	}

	cmd.Flags().BoolVar(&graphDOT, "dot", false, "Emit Graphviz DOT instead of a table")
	cmd.Flags().IntVar(&graphTop, "top", 10, "Number of entities to show")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(graphTop, "top"); err != nil {
		return err
	}
	corpusName := args[0]

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	corpus, err := a.corpora.GetCorpusByName(ctx, corpusName)
	if err != nil {
		return err
	}
	if corpus == nil {
		return fmt.Errorf("corpus %q does not exist", corpusName)
	}

	text, err := a.corpora.CorpusText(ctx, corpus.ID)
	if err != nil {
		return err
	}
	chunks, err := retrieval.Split(text, corpus.ID, a.cfg.ChunkSize, a.cfg.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("chunking corpus: %w", err)
	}

	graph := knowledge.BuildGraph(chunks)

	if graphDOT {
		fmt.Fprint(cmd.OutOrStdout(), graph.DOT())
		return nil
	}
	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"entities": graph.TopEntities(graphTop),
			"edges":    graph.Edges(),
		})
	}

	centrality := graph.Centrality()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ENTITY\tMENTIONS\tDEGREE\n")
	fmt.Fprintf(w, "------\t--------\t------\n")
	for _, e := range graph.TopEntities(graphTop) {
		fmt.Fprintf(w, "%s\t%d\t%d\n", truncate(e.Label, 40), e.Mentions, centrality[e.Label])
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d entities, %d edges\n", graph.EntityCount(), graph.EdgeCount())
	}
	return nil
}
