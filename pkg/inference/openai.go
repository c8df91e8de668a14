package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"rubricgen/pkg/schema"
)

// OpenAIInferencer implements Inferencer using OpenAI's official Go SDK. It
// also serves any OpenAI-compatible gateway via ChangeBaseURL.
type OpenAIInferencer struct {
	client    *openai.Client
	apiKey    string
	model     string
	maxTokens int64
}

// NewOpenAIInferencer creates a new inferencer instance using OpenAI client.
func NewOpenAIInferencer(apiKey string, model string) *OpenAIInferencer {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(30*time.Second),
	)
	return &OpenAIInferencer{
		client: &client,
		apiKey: apiKey,
		model:  model,
	}
}

func (o *OpenAIInferencer) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(30*time.Second),
	)
	o.client = &client
}

func (o *OpenAIInferencer) SetModel(model string) {
	o.model = model
}

// SetMaxTokens caps the completion length so long manuals are not truncated
// mid-document by the provider default.
func (o *OpenAIInferencer) SetMaxTokens(n int64) {
	o.maxTokens = n
}

// Infer sends the prompt to the chat completion endpoint and returns the raw
// reply text. Temperature is pinned to zero so repeated runs over the same
// topic stay comparable.
func (o *OpenAIInferencer) Infer(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: o.model,
	}
	if system != "" {
		params.Messages = append(params.Messages, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Role: "system",
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: param.Opt[string]{Value: system},
				},
			},
		})
	}
	params.Messages = append(params.Messages, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Role: "user",
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: param.Opt[string]{Value: user},
			},
		},
	})

	params.MaxCompletionTokens = openai.Int(cmp.Or(o.maxTokens, 8192))
	params.Temperature = openai.Float(0)
	params.ResponseFormat = schema.StructuredOutputsResponseFormat()

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai inference error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion content")
	}

	return resp.Choices[0].Message.Content, nil
}

// Verify checks that the result is non-empty or conforms to minimal expectations.
func (o *OpenAIInferencer) Verify(ctx context.Context, result string) (bool, error) {
	if result == "" {
		return false, errors.New("empty result")
	}
	return true, nil
}
