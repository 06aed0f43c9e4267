package openai

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o"

// Client wraps the OpenAI chat completion API in JSON mode. Every itinerary
// payload we request is structured JSON, so the response_format is pinned to
// json_object and responses are returned as raw JSON strings for the caller
// to decode.
type Client struct {
	api     *openai.Client
	Model   string
	timeout time.Duration
}

func NewClient() *Client {
	key := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}
	timeout := 120 * time.Second
	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	return &Client{api: openai.NewClient(key), Model: model, timeout: timeout}
}

// CompleteJSON runs one chat completion and returns the raw JSON content.
// The request is bounded by the configured timeout; expiry surfaces as a
// plain error, which callers treat as a failed generation.
func (c *Client) CompleteJSON(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
