package inference

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

type GeminiInferencer struct {
	client    *genai.Client
	apiKey    string
	model     string
	maxTokens int64
}

// NewGeminiInferencer creates a new inferencer instance using the Gemini client.
func NewGeminiInferencer(apiKey string, model string) (*GeminiInferencer, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &GeminiInferencer{
		client: client,
		apiKey: apiKey,
		model:  model,
	}, nil
}

func (o *GeminiInferencer) ChangeConfig(config *genai.ClientConfig) {
	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return
	}
	o.client = client
}

func (o *GeminiInferencer) SetMaxTokens(n int64) {
	o.maxTokens = n
}

// Infer sends the prompt to Gemini and returns the raw reply text. The
// response MIME type is pinned to JSON so the reply is a bare document rather
// than a fenced code block.
func (o *GeminiInferencer) Infer(ctx context.Context, system, user string) (string, error) {
	maxTokens := o.maxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		MaxOutputTokens:  int32(maxTokens),
		Temperature:      genai.Ptr[float32](0),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleModel)
	}

	result, err := o.client.Models.GenerateContent(ctx, o.model, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return result.Text(), nil
}

// Verify checks that the result is non-empty or conforms to minimal expectations.
func (o *GeminiInferencer) Verify(ctx context.Context, result string) (bool, error) {
	if result == "" {
		return false, errors.New("empty result")
	}
	return true, nil
}
