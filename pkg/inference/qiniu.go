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
)

// QiniuInferencer targets the Qiniu AI gateway, an OpenAI-compatible endpoint
// kept as a fallback when the primary gateway is rate limited.
type QiniuInferencer struct {
	client    *openai.Client
	apiKey    string
	model     string
	maxTokens int64
}

// NewQiniuInferencer creates a new inferencer instance using the Qiniu AI OpenAI-compatible API.
func NewQiniuInferencer(apiKey string, model string) *QiniuInferencer {
	if model == "" {
		model = "gpt-oss-120b"
	}
	client := openai.NewClient(
		option.WithBaseURL("https://api.qnaigc.com/v1"),
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(30*time.Second),
	)
	return &QiniuInferencer{
		client: &client,
		apiKey: apiKey,
		model:  model,
	}
}

func (o *QiniuInferencer) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(30*time.Second),
	)
	o.client = &client
}

func (o *QiniuInferencer) SetModel(model string) {
	o.model = model
}

func (o *QiniuInferencer) SetMaxTokens(maxTokens int64) {
	o.maxTokens = maxTokens
}

// Infer sends the prompt to the chat completion endpoint and returns the raw
// reply text.
func (o *QiniuInferencer) Infer(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:               o.model,
		MaxCompletionTokens: openai.Int(cmp.Or(o.maxTokens, 8192)),
		Temperature:         openai.Float(0),
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

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("qiniu inference error: %w", err)
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
func (o *QiniuInferencer) Verify(ctx context.Context, result string) (bool, error) {
	if result == "" {
		return false, errors.New("empty result")
	}
	return true, nil
}
