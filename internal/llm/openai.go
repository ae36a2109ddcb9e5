package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client using OpenAI function calling.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI-powered brand finder.
func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	return NewOpenAIClientWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAIClientWithConfig allows overriding the base URL, e.g. in tests.
func NewOpenAIClientWithConfig(cfg openai.ClientConfig, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAIClient) ProviderName() string { return "openai" }
func (o *OpenAIClient) ModelName() string     { return o.model }

func (o *OpenAIClient) FindBrand(ctx context.Context, query string) (*BrandResult, error) {
	// OpenAI's Parameters field accepts `any` — we pass a raw JSON schema map.
	tools := []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        submitToolName,
				Description: "Submit the brand identified for the search query.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": submitToolProperties(),
					"required":   []string{"company_name", "domain", "confidence"},
				},
			},
		},
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You identify companies and brands from short search queries for a logo catalog. Answer via the " + submitToolName + " function.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: buildPrompt(query),
		},
	}

	for i := 0; i < maxTurns; i++ {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    o.model,
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return nil, fmt.Errorf("openai API call: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("openai returned no choices")
		}

		choice := resp.Choices[0]
		if len(choice.Message.ToolCalls) == 0 {
			if choice.FinishReason == openai.FinishReasonStop {
				return nil, fmt.Errorf("%w: OpenAI ended without submitting for %q", ErrNoBrand, query)
			}
			continue
		}

		messages = append(messages, choice.Message)
		for _, toolCall := range choice.Message.ToolCalls {
			if toolCall.Function.Name == submitToolName {
				return parseSubmission([]byte(toolCall.Function.Arguments), query)
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    "Received. Please call " + submitToolName + " with your answer.",
				ToolCallID: toolCall.ID,
			})
		}
	}

	return nil, fmt.Errorf("exceeded max turns identifying %q", query)
}
