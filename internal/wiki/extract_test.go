package wiki

import (
	"strings"
	"testing"
)

func TestExtractText(t *testing.T) {
	html := `<html><body>
		<div class="mw-parser-output">
			<p>Chemicals are produced in a <b>condenser</b>.</p>
			<p>Higher tiers need more heat.</p>
		</div>
		<script>console.log("tracking")</script>
		<style>.mw-editsection { display: none }</style>
	</body></html>`

	text, err := ExtractText(html)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}

	for _, want := range []string{"Chemicals are produced in a condenser.", "Higher tiers need more heat."} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	for _, reject := range []string{"console.log", "display: none", "\n", "\t"} {
		if strings.Contains(text, reject) {
			t.Errorf("text contains %q:\n%s", reject, text)
		}
	}
}

func TestExtractText_EmptyDocument(t *testing.T) {
	text, err := ExtractText("<html><body></body></html>")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := collapseWhitespace("  a\n\tb   c \n")
	if got != "a b c" {
		t.Errorf("collapseWhitespace = %q, want %q", got, "a b c")
	}
}
