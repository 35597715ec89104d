package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Generator synthesizes answers with a Gemini model through Genkit.
type Generator struct {
	g     *genkit.Genkit
	model string
}

// NewGenerator creates a generator for the given model name. Bare Gemini
// model names are qualified with the googleai provider prefix.
func NewGenerator(g *genkit.Genkit, model string) *Generator {
	if !strings.Contains(model, "/") {
		model = "googleai/" + model
	}
	return &Generator{g: g, model: model}
}

// Generate returns the model's free-text response to the rendered prompt.
func (gn *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, gn.g,
		ai.WithModelName(gn.model),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("generating with %s: %w", gn.model, err)
	}
	return resp.Text(), nil
}
