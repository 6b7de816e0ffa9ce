package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/infrastructure/resilience"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Client struct {
	baseURL    string
	apiKey     string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, apiKey, embedModel string, executor *resilience.Executor) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	return c.generate(ctx, model, []content{{Role: "user", Parts: []part{{Text: prompt}}}})
}

func (c *Client) GenerateWithHistory(
	ctx context.Context,
	model string,
	history []domain.Message,
	prompt string,
) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, msg := range history {
		role := msg.Role
		// Gemini only knows user and model turns.
		if role != "user" {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: msg.Content}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: prompt}}})
	return c.generate(ctx, model, contents)
}

func (c *Client) generate(ctx context.Context, model string, contents []content) (string, error) {
	path := fmt.Sprintf("/models/%s:generateContent", model)
	operation := "gemini generate"

	var response generateResponse
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		response = generateResponse{}
		return c.postJSON(ctx, path, generateRequest{Contents: contents}, &response, operation)
	}, classifyGeminiError)
	if err != nil {
		return "", wrapGeminiError(operation, err)
	}

	if response.PromptFeedback.BlockReason != "" {
		return "", domain.WrapError(domain.ErrContentBlocked, operation,
			fmt.Errorf("prompt blocked: %s", response.PromptFeedback.BlockReason))
	}
	if len(response.Candidates) == 0 {
		return "", domain.WrapError(domain.ErrProviderUnknown, operation,
			fmt.Errorf("no candidates returned"))
	}

	candidate := response.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return "", domain.WrapError(domain.ErrContentBlocked, operation,
			fmt.Errorf("response blocked by safety filter"))
	}

	var b strings.Builder
	for _, p := range candidate.Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", domain.WrapError(domain.ErrProviderUnknown, operation,
			fmt.Errorf("empty candidate text"))
	}
	return text, nil
}
