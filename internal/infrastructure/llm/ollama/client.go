package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/infrastructure/resilience"
)

// Client talks to a local Ollama daemon. It exists so the whole pipeline
// can run without any cloud credentials; the model policy then names
// local models instead of hosted ones.
type Client struct {
	baseURL    string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, embedModel string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}

	operation := "ollama generate"
	var response struct {
		Response string `json:"response"`
	}
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		response.Response = ""
		return c.postJSON(ctx, "/api/generate", reqBody, &response, operation)
	}, classifyOllamaError)
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return strings.TrimSpace(response.Response), nil
}

func (c *Client) GenerateWithHistory(
	ctx context.Context,
	model string,
	history []domain.Message,
	prompt string,
) (string, error) {
	// The generate endpoint is stateless, so history is flattened into
	// the prompt.
	var b strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	b.WriteString("user: ")
	b.WriteString(prompt)
	return c.Generate(ctx, model, b.String())
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}

	operation := "ollama embed"
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := e.client.executor.Execute(ctx, operation, func(ctx context.Context) error {
		response.Embeddings = nil
		return e.client.postJSON(ctx, "/api/embed", request, &response, operation)
	}, classifyOllamaError)
	if err != nil {
		return nil, wrapTemporaryIfNeeded(operation, err)
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}
