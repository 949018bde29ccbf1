// ABOUTME: CLI command to ingest documents into a corpus
// ABOUTME: Stores the document, rebuilds the retrieval index, and persists a snapshot
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aniruddha1321/Athena/internal/textutil"
)

var (
	ingestFile  string
	ingestTitle string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <corpus> [text]",
		Short: "Add a document to a corpus",
		Long: `Add a document to a corpus and rebuild its retrieval index.

The corpus is created on first ingest. Text comes from the argument,
--file, or stdin.

Examples:
  athena ingest papers "Attention is all you need ..."
  athena ingest papers --file paper.txt --title "Transformers"
  cat notes.md | athena ingest notes`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestFile, "file", "", "Read document from file")
	cmd.Flags().StringVar(&ingestTitle, "title", "", "Document title")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	corpusName := args[0]

	var text string
	if ingestFile != "" {
		data, err := os.ReadFile(ingestFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	} else if len(args) > 1 {
		text = args[1]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	// Repair PDF-style extraction artifacts before chunking.
	text = textutil.CleanExtractedText(text)
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no document text provided")
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	corpus, err := a.corpora.CreateCorpus(ctx, corpusName)
	if err != nil {
		return fmt.Errorf("registering corpus: %w", err)
	}

	doc, err := a.corpora.AddDocument(ctx, corpus.ID, ingestTitle, text)
	if err != nil {
		return fmt.Errorf("storing document: %w", err)
	}

	corpusText, err := a.corpora.CorpusText(ctx, corpus.ID)
	if err != nil {
		return fmt.Errorf("loading corpus text: %w", err)
	}
	if err := a.retriever.Ingest(ctx, corpus.ID, corpusText, a.cfg.ChunkSize, a.cfg.ChunkOverlap); err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	a.saveSnapshot(corpus.ID)

	var chunks int
	if s := a.retriever.Session(corpus.ID); s != nil && s.Index() != nil {
		chunks = s.Index().Len()
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Ingested document %s into corpus %q (%d chunks indexed)\n",
			doc.ID, corpus.Name, chunks)
	}
	return nil
}
