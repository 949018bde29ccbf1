// ABOUTME: CLI command for grounded question answering
// ABOUTME: Retrieves corpus context and streams the generated answer
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aniruddha1321/Athena/internal/assistant"
)

var (
	askNoStream bool
	askShowSrc  bool
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <corpus> <question>",
		Short: "Answer a question from a corpus",
		Long: `Answer a question using the most relevant corpus passages as context.

Requires a chat backend: either OPENAI_API_KEY or ATHENA_BASE_URL
pointing at a local OpenAI-compatible server.

Examples:
  athena ask papers "What problem do transformers solve?"
  athena ask --sources notes "When is the release?"`,
		Args: cobra.ExactArgs(2),
		RunE: runAsk,
	}

	cmd.Flags().BoolVar(&askNoStream, "no-stream", false, "Print the full answer at once")
	cmd.Flags().BoolVar(&askShowSrc, "sources", false, "Show the passages that grounded the answer")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	corpusName, question := args[0], args[1]

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	corpusID, err := a.openCorpus(ctx, corpusName)
	if err != nil {
		return err
	}

	qa := assistant.NewQAEngine(a.retriever, a.generator, a.cfg.TopK)

	var answer *assistant.Answer
	if askNoStream || outputFormat == "json" {
		answer, err = qa.Ask(ctx, corpusID, question)
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(cmd.OutOrStdout(), answer)
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
	} else {
		answer, err = qa.AskStream(ctx, corpusID, question, func(token string) {
			fmt.Fprint(cmd.OutOrStdout(), token)
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if askShowSrc {
		fmt.Fprintln(cmd.OutOrStdout(), "\nSources:")
		for _, src := range answer.Sources {
			fmt.Fprintf(cmd.OutOrStdout(), "  [%d] score %.3f: %s\n",
				src.Rank, src.Score, truncate(src.Chunk.Text, 80))
		}
	}
	return nil
}
