package rag

import (
	"fmt"
	"strings"

	"github.com/labsmc/wikigpt/internal/knowledge"
)

// promptPreamble carries the fixed style and behavior rules for answer
// synthesis. It is part of the generation contract, not configuration.
const promptPreamble = `You are WikiGPT, the assistant for the MCLabs wiki.
Answer the question using only the wiki content provided below.

Rules:
- Be concise. A short paragraph at most.
- Never state anything the provided content does not support. If the content
  does not answer the question, say you do not know and suggest asking staff.
- Help/FAQ entries are authoritative: when one conflicts with a wiki page,
  follow the help/FAQ entry.
- When two entries conflict, follow the one with the more recent date.
- Write "MCLabs" for the server name, never "MCL" or "the labs".
- Write "chemical" rather than "chem", and "rank-up" rather than "ranking".`

// BuildPrompt renders the full generation prompt: preamble, one
// "title: content" line per retrieved chunk in retrieval order, then the
// question.
func BuildPrompt(question string, chunks []knowledge.Chunk) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nWiki content:\n")
	for _, c := range chunks {
		fmt.Fprintf(&b, "%s: %s\n", c.Title, c.Content)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}
