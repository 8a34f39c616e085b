package advice

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generation settings, fixed by design: short answers at moderate creativity.
const (
	DefaultModel    = "gemini-2.0-flash"
	temperature     = 0.7
	maxOutputTokens = 256
)

// NewGeminiClient builds an advice client backed by the Gemini API. An empty
// model name falls back to DefaultModel.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return newClient(&geminiGenerator{client: client, model: model}), nil
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
