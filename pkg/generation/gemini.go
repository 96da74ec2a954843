package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiBackend calls the Google Gemini API. A fresh client is created per
// call and closed afterwards; call volume is one request per completed
// workout, so connection reuse buys nothing here.
type GeminiBackend struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewGemini builds a live backend for the given model.
func NewGemini(apiKey, model string, timeout time.Duration) *GeminiBackend {
	return &GeminiBackend{apiKey: apiKey, model: model, timeout: timeout}
}

func (g *GeminiBackend) Name() string { return "gemini:" + g.model }

// GenerateText sends the prompt to Gemini and concatenates the text parts
// of the first candidate.
func (g *GeminiBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.4)
	model.SetTopP(0.9)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	raw := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			raw += string(text)
		}
	}
	return raw, nil
}
