package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// Generator sends one prompt to a text model and returns its raw output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGenerator returns a Gemini-backed Generator, or one that always fails with
// KindNotConfigured when apiKey is empty.
func NewGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		log.Println("WARN: GEMINI_API_KEY is not set, generation is disabled")
		return unconfigured{}, nil
	}
	return NewGeminiClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}, model)
}

func NewGeminiClient(ctx context.Context, cc *genai.ClientConfig, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("llm.NewGeminiClient: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classify(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: KindMalformed, Op: "generate", Err: errors.New("model returned no text")}
	}
	return text, nil
}

func classify(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	switch {
	case code == 429:
		return &Error{Kind: KindRateLimited, Op: "generate", Err: err}
	case code == 401 || code == 403:
		return &Error{Kind: KindNotConfigured, Op: "generate", Err: err}
	default:
		return &Error{Kind: KindNetwork, Op: "generate", Err: err}
	}
}

type unconfigured struct{}

func (unconfigured) Generate(context.Context, string) (string, error) {
	return "", &Error{Kind: KindNotConfigured, Op: "generate", Err: errors.New("GEMINI_API_KEY is not set")}
}
