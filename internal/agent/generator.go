package agent

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a medical assistant that turns structured prescription data into a short, plainly worded prescription summary."

// Generator is the external narrative-generation collaborator. It takes the
// fully formatted prompt and returns free text; a failure is reported to the
// caller, which substitutes a placeholder rather than failing the session.
type Generator interface {
	GeneratePrescription(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient generates prescription narratives via the OpenAI chat
// completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs the client. An empty model falls back to a
// small default, matching how the rest of the config layer behaves.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIClient) GeneratePrescription(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
