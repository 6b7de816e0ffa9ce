package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/core/ports"
)

// Index is the in-process vector backend. Chunks are embedded on insert
// and queries on search, so callers only ever handle text. Filtering
// happens before ranking: a chunk outside the filter can never displace
// an in-filter chunk from the top results.
type Index struct {
	embedder ports.Embedder

	mu      sync.RWMutex
	entries []entry
}

type entry struct {
	chunk  domain.Chunk
	vector []float32
}

func NewIndex(embedder ports.Embedder) *Index {
	return &Index{embedder: embedder}
}

func (idx *Index) Insert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := idx.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i, chunk := range chunks {
		idx.entries = append(idx.entries, entry{chunk: chunk, vector: vectors[i]})
	}
	return nil
}

func (idx *Index) Search(
	ctx context.Context,
	query string,
	limit int,
	filter domain.SearchFilter,
) ([]domain.RetrievedChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	queryVector, err := idx.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	scored := make([]domain.RetrievedChunk, 0, limit)
	for _, e := range idx.entries {
		if !matches(e.chunk, filter) {
			continue
		}
		scored = append(scored, domain.RetrievedChunk{
			Content: e.chunk.Text,
			Source:  e.chunk.Source,
			ChunkID: e.chunk.ChunkID,
			OwnerID: e.chunk.OwnerID,
			FileID:  e.chunk.FileID,
			Score:   cosine(queryVector, e.vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (idx *Index) DeleteByFile(_ context.Context, ownerID, fileID string) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.entries[:0]
	removed := 0
	for _, e := range idx.entries {
		if e.chunk.OwnerID == ownerID && e.chunk.FileID == fileID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	idx.entries = kept
	return removed, nil
}

func (idx *Index) CountByFile(_ context.Context, ownerID, fileID string) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	count := 0
	for _, e := range idx.entries {
		if e.chunk.OwnerID == ownerID && e.chunk.FileID == fileID {
			count++
		}
	}
	return count, nil
}

func (idx *Index) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries), nil
}

func matches(chunk domain.Chunk, filter domain.SearchFilter) bool {
	if filter.OwnerID != "" && chunk.OwnerID != filter.OwnerID {
		return false
	}
	if filter.FileID != "" && chunk.FileID != filter.FileID {
		return false
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
