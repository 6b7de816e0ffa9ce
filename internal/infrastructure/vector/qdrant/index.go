package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/core/ports"
)

// Index backs the vector port with a Qdrant server. Text goes in, text
// comes out: embedding happens here so callers never see vectors.
type Index struct {
	baseURL    string
	collection string
	embedder   ports.Embedder
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func NewIndex(baseURL, collection string, embedder ports.Embedder) *Index {
	return &Index{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		embedder:   embedder,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Index) Insert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks))
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, point{
			ID:     uuid.NewString(),
			Vector: vectors[i],
			Payload: map[string]any{
				"owner_id": chunk.OwnerID,
				"file_id":  chunk.FileID,
				"source":   chunk.Source,
				"chunk_id": chunk.ChunkID,
				"sequence": chunk.Sequence,
				"text":     chunk.Text,
			},
		})
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	return c.do(ctx, http.MethodPut, url, map[string]any{"points": points}, nil)
}

func (c *Index) Search(
	ctx context.Context,
	query string,
	limit int,
	filter domain.SearchFilter,
) ([]domain.RetrievedChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	queryVector, err := c.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	reqBody := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}
	if f := buildFilter(filter); f != nil {
		reqBody["filter"] = f
	}

	var searchResp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodPost, url, reqBody, &searchResp); err != nil {
		return nil, err
	}

	out := make([]domain.RetrievedChunk, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		out = append(out, domain.RetrievedChunk{
			Content: getStringPayload(r.Payload, "text"),
			Source:  getStringPayload(r.Payload, "source"),
			ChunkID: getStringPayload(r.Payload, "chunk_id"),
			OwnerID: getStringPayload(r.Payload, "owner_id"),
			FileID:  getStringPayload(r.Payload, "file_id"),
			Score:   r.Score,
		})
	}
	return out, nil
}

func (c *Index) DeleteByFile(ctx context.Context, ownerID, fileID string) (int, error) {
	count, err := c.CountByFile(ctx, ownerID, fileID)
	if err != nil {
		return 0, err
	}

	reqBody := map[string]any{
		"filter": buildFilter(domain.SearchFilter{OwnerID: ownerID, FileID: fileID}),
	}
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodPost, url, reqBody, nil); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Index) CountByFile(ctx context.Context, ownerID, fileID string) (int, error) {
	return c.count(ctx, buildFilter(domain.SearchFilter{OwnerID: ownerID, FileID: fileID}))
}

func (c *Index) Count(ctx context.Context) (int, error) {
	return c.count(ctx, nil)
}

func (c *Index) count(ctx context.Context, filter map[string]any) (int, error) {
	reqBody := map[string]any{"exact": true}
	if filter != nil {
		reqBody["filter"] = filter
	}

	var countResp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/count", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodPost, url, reqBody, &countResp); err != nil {
		return 0, err
	}
	return countResp.Result.Count, nil
}

func buildFilter(filter domain.SearchFilter) map[string]any {
	var must []map[string]any
	if filter.OwnerID != "" {
		must = append(must, map[string]any{
			"key":   "owner_id",
			"match": map[string]any{"value": filter.OwnerID},
		})
	}
	if filter.FileID != "" {
		must = append(must, map[string]any{
			"key":   "file_id",
			"match": map[string]any{"value": filter.FileID},
		})
	}
	if must == nil {
		return nil
	}
	return map[string]any{"must": must}
}

func (c *Index) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	reqBody := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	err := c.do(ctx, http.MethodPut, url, reqBody, nil)
	// 409 means the collection already exists, which is fine.
	if err != nil && !strings.Contains(err.Error(), "409") {
		return err
	}

	c.ensureMu.Lock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
	c.ensureMu.Unlock()
	return nil
}

func (c *Index) do(ctx context.Context, method, url string, reqBody any, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal qdrant body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create qdrant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return fmt.Errorf("qdrant status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("qdrant status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode qdrant response: %w", err)
		}
	}
	return nil
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
