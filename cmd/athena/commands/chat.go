// ABOUTME: CLI command for interactive chat with optional corpus grounding
// ABOUTME: Launches the Bubble Tea chat screen backed by the chat engine
package commands

import (
	"bufio"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aniruddha1321/Athena/internal/assistant"
	"github.com/aniruddha1321/Athena/internal/tui"
)

var (
	chatCorpus  string
	chatHistory int
	chatPlain   bool
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively with the assistant",
		Long: `Chat interactively with the assistant in a terminal UI.

With --corpus, each turn is grounded in the most relevant passages
from that corpus. History is persisted per session. --plain reads
messages from stdin instead of opening the terminal UI.

Examples:
  athena chat
  athena chat --corpus papers
  echo "what is attention?" | athena chat --corpus papers --plain`,
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatCorpus, "corpus", "", "Ground replies in this corpus")
	cmd.Flags().IntVar(&chatHistory, "history", 0, "Turns of history per prompt (0 = default)")
	cmd.Flags().BoolVar(&chatPlain, "plain", false, "Line-based chat on stdin/stdout instead of the TUI")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	engine := assistant.NewChatEngine(a.generator, a.retriever, a.chatStore, chatHistory)

	title := "chat"
	if chatCorpus != "" {
		corpusID, err := a.openCorpus(cmd.Context(), chatCorpus)
		if err != nil {
			return err
		}
		engine.AttachCorpus(corpusID)
		title = chatCorpus
	}

	if chatPlain {
		return runPlainChat(cmd, engine)
	}

	program := tea.NewProgram(tui.New(engine, title), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running chat UI: %w", err)
	}
	return nil
}

// runPlainChat reads one message per line and prints each reply, for
// piped input and terminals without alt-screen support.
func runPlainChat(cmd *cobra.Command, engine *assistant.ChatEngine) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := cmd.OutOrStdout()

	for scanner.Scan() {
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "/quit" || message == "/exit" {
			break
		}
		reply, err := engine.Send(cmd.Context(), message)
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}
		fmt.Fprintln(out, reply)
	}
	return scanner.Err()
}
