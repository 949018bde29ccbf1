// ABOUTME: End-to-end tests for ingest, search, corpora, and graph commands
// ABOUTME: Uses the lexical embedder and an isolated XDG data directory

package commands

import (
	"bytes"
	"strings"
	"testing"
)

// isolate points all storage and config at a temp directory and selects the
// offline lexical embedder so commands run hermetically.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("ATHENA_CONFIG", dir+"/no-config.yaml")
	t.Setenv("ATHENA_EMBEDDING_BACKEND", "lexical")
	t.Setenv("ATHENA_EMBEDDING_DIMENSION", "256")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ATHENA_BASE_URL", "")
}

// run executes the CLI with args and returns its combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return output.String(), err
}

func TestIngestAndSearch_RoundTrip(t *testing.T) {
	isolate(t)

	out, err := run(t, "ingest", "notes",
		"The cat sat on the mat. The dog barked at the moon all night long while the owls listened.")
	if err != nil {
		t.Fatalf("ingest error = %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Ingested document") {
		t.Errorf("ingest output = %q", out)
	}

	out, err = run(t, "search", "notes", "Where did the cat sit?")
	if err != nil {
		t.Fatalf("search error = %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "cat") {
		t.Errorf("search output missing matching passage: %q", out)
	}
	if !strings.Contains(out, "result(s)") {
		t.Errorf("search output missing summary line: %q", out)
	}
}

func TestSearch_UnknownCorpus(t *testing.T) {
	isolate(t)

	_, err := run(t, "search", "nothing", "query")
	if err == nil {
		t.Fatal("search of unknown corpus should fail")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error = %v, want unknown-corpus message", err)
	}
}

func TestIngest_NoText(t *testing.T) {
	isolate(t)

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"ingest", "notes"})

	if err := cmd.Execute(); err == nil {
		t.Error("ingest with no text should fail")
	}
}

func TestCorpora_ListAndDelete(t *testing.T) {
	isolate(t)

	if out, err := run(t, "ingest", "papers", "Attention mechanisms changed sequence modeling."); err != nil {
		t.Fatalf("ingest error = %v\noutput: %s", err, out)
	}

	out, err := run(t, "corpora")
	if err != nil {
		t.Fatalf("corpora error = %v", err)
	}
	if !strings.Contains(out, "papers") {
		t.Errorf("corpora output missing corpus: %q", out)
	}

	if out, err = run(t, "corpora", "delete", "papers"); err != nil {
		t.Fatalf("corpora delete error = %v\noutput: %s", err, out)
	}

	out, err = run(t, "corpora")
	if err != nil {
		t.Fatalf("corpora error = %v", err)
	}
	if strings.Contains(out, "papers") {
		t.Errorf("deleted corpus still listed: %q", out)
	}
}

func TestGraph_Table(t *testing.T) {
	isolate(t)

	if out, err := run(t, "ingest", "history",
		"Alan Turing worked with Gordon Welchman at Bletchley Park. Turing later moved to Manchester."); err != nil {
		t.Fatalf("ingest error = %v\noutput: %s", err, out)
	}

	out, err := run(t, "graph", "history")
	if err != nil {
		t.Fatalf("graph error = %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "ENTITY") {
		t.Errorf("graph output missing table header: %q", out)
	}
	if !strings.Contains(out, "Turing") {
		t.Errorf("graph output missing entity: %q", out)
	}
}

func TestGraph_DOT(t *testing.T) {
	isolate(t)

	if out, err := run(t, "ingest", "history", "Alan Turing met Gordon Welchman."); err != nil {
		t.Fatalf("ingest error = %v\noutput: %s", err, out)
	}

	out, err := run(t, "graph", "--dot", "history")
	if err != nil {
		t.Fatalf("graph --dot error = %v", err)
	}
	if !strings.HasPrefix(out, "graph knowledge {") {
		t.Errorf("DOT output = %q", out)
	}
}

func TestSearch_JSONFormat(t *testing.T) {
	isolate(t)

	if out, err := run(t, "ingest", "notes", "The quick brown fox jumps over the lazy dog."); err != nil {
		t.Fatalf("ingest error = %v\noutput: %s", err, out)
	}

	out, err := run(t, "--format", "json", "search", "notes", "quick fox")
	if err != nil {
		t.Fatalf("search error = %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, `"chunk"`) || !strings.Contains(out, `"score"`) {
		t.Errorf("JSON output missing fields: %q", out)
	}
}
