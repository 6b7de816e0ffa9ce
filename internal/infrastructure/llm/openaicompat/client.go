package openaicompat

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/infrastructure/resilience"
)

// Client adapts any OpenAI-compatible endpoint to the generation and
// embedding ports. The base URL override makes it work against proxies
// and self-hosted gateways, not just api.openai.com.
type Client struct {
	api        *openai.Client
	embedModel string
	executor   *resilience.Executor
}

func New(apiKey, baseURL, embedModel string, executor *resilience.Executor) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		api:        openai.NewClientWithConfig(cfg),
		embedModel: embedModel,
		executor:   executor,
	}
}

func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	return c.GenerateWithHistory(ctx, model, nil, prompt)
}

func (c *Client) GenerateWithHistory(
	ctx context.Context,
	model string,
	history []domain.Message,
	prompt string,
) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	for _, msg := range history {
		role := msg.Role
		if role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleSystem {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	operation := "openai generate"
	var response openai.ChatCompletionResponse
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		var callErr error
		response, callErr = c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    model,
			Messages: messages,
		})
		return callErr
	}, classifyOpenAIError)
	if err != nil {
		return "", wrapOpenAIError(operation, err)
	}

	if len(response.Choices) == 0 {
		return "", domain.WrapError(domain.ErrProviderUnknown, operation, fmt.Errorf("no choices returned"))
	}
	if response.Choices[0].FinishReason == openai.FinishReasonContentFilter {
		return "", domain.WrapError(domain.ErrContentBlocked, operation, fmt.Errorf("response filtered"))
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	operation := "openai embed"
	var response openai.EmbeddingResponse
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		var callErr error
		response, callErr = c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(c.embedModel),
		})
		return callErr
	}, classifyOpenAIError)
	if err != nil {
		return nil, wrapOpenAIError(operation, err)
	}

	vectors := make([][]float32, len(response.Data))
	for i, item := range response.Data {
		vectors[i] = item.Embedding
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embeddings/texts mismatch: %d/%d", len(vectors), len(texts))
	}
	return vectors, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}
