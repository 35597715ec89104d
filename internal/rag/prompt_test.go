package rag

import (
	"strings"
	"testing"

	"github.com/labsmc/wikigpt/internal/knowledge"
)

func TestBuildPrompt(t *testing.T) {
	chunks := []knowledge.Chunk{
		{Title: "Chemicals", Content: "use a condenser"},
		{Title: "Ranks", Content: "rank-up at spawn"},
	}

	prompt := BuildPrompt("where do I rank up?", chunks)

	if !strings.HasSuffix(prompt, "Answer:") {
		t.Errorf("prompt does not end with the answer cue:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Question: where do I rank up?") {
		t.Error("prompt missing the question line")
	}

	// Chunks appear in retrieval order.
	first := strings.Index(prompt, "Chemicals: use a condenser")
	second := strings.Index(prompt, "Ranks: rank-up at spawn")
	if first == -1 || second == -1 || second < first {
		t.Errorf("chunks missing or out of order in prompt:\n%s", prompt)
	}
}

func TestBuildPrompt_NoChunks(t *testing.T) {
	prompt := BuildPrompt("anything?", nil)

	if !strings.Contains(prompt, "Wiki content:\n\nQuestion: anything?") {
		t.Errorf("empty-context prompt malformed:\n%s", prompt)
	}
}
