package gemini

import (
	"context"
	"fmt"
)

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

type embedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type embedContentRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type embedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	requests := make([]embedContentRequest, len(texts))
	for i, text := range texts {
		requests[i] = embedContentRequest{
			Model:   "models/" + e.client.embedModel,
			Content: content{Parts: []part{{Text: text}}},
		}
	}

	path := fmt.Sprintf("/models/%s:batchEmbedContents", e.client.embedModel)
	operation := "gemini embed"

	var response embedResponse
	err := e.client.executor.Execute(ctx, operation, func(ctx context.Context) error {
		response = embedResponse{}
		return e.client.postJSON(ctx, path, embedRequest{Requests: requests}, &response, operation)
	}, classifyGeminiError)
	if err != nil {
		return nil, wrapGeminiError(operation, err)
	}

	vectors := make([][]float32, len(response.Embeddings))
	for i, emb := range response.Embeddings {
		vectors[i] = emb.Values
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embeddings/texts mismatch: %d/%d", len(vectors), len(texts))
	}
	return vectors, nil
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
