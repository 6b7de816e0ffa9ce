package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/infrastructure/chunking"
	"github.com/AswanthAllu/agentic/internal/infrastructure/vector/memory"
)

// markerEmbedder scores text by how often it mentions the marker word, so
// retrieval is deterministic without a real embedding provider. Texts
// sharing the marker land close together, everything else points away.
type markerEmbedder struct {
	marker string
}

func (e markerEmbedder) embed(text string) []float32 {
	count := strings.Count(strings.ToLower(text), e.marker)
	return []float32{1, float32(4 * count)}
}

func (e markerEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e markerEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

// Exercises the whole document path at once: a two-thousand-character
// text is split by the real chunker, indexed by the real in-memory
// backend, and answered through the retrieval gate.
func TestIngestThenRAGAnswersFromDocument(t *testing.T) {
	text := "The gopher colony doubled in size this spring. " +
		strings.Repeat("The quarterly report covers revenue, staffing, and roadmap items across every region. ", 24)

	index := memory.NewIndex(markerEmbedder{marker: "gopher"})
	repo := newIngestRepo()
	ingest := NewIngestUseCase(repo, &chatExtractorFake{text: text}, chunking.NewSplitter(512, 100), index)

	if err := ingest.IngestByID(context.Background(), "f1"); err != nil {
		t.Fatalf("IngestByID() error = %v", err)
	}
	indexed := repo.chunks[len(repo.chunks)-1]
	if indexed < 3 {
		t.Fatalf("expected at least 3 chunks from ~2000 chars, got %d", indexed)
	}

	gen := &chatGenFake{responses: []string{"The colony doubled in size."}}
	chat := NewChatUseCase(
		NewLLMGateway(gen, DefaultModelPolicy()),
		index,
		NewIndexLoader(index, &ingestorFake{}),
		repo,
		&chatExtractorFake{text: text},
		&chatWebFake{},
		ChatConfig{},
	)

	query := "How did the gopher population change?"
	result, err := chat.RAG(context.Background(), "u1", "f1", query, nil, true)
	if err != nil {
		t.Fatalf("RAG() error = %v", err)
	}
	if result.SearchType != domain.SearchTypeRAG {
		t.Fatalf("expected rag, got %s", result.SearchType)
	}
	if result.Message != "The colony doubled in size." {
		t.Fatalf("unexpected message %q", result.Message)
	}

	foundDocument := false
	for _, source := range result.Sources {
		if source.Title == "notes.txt" && source.Type == "document" {
			foundDocument = true
		}
	}
	if !foundDocument {
		t.Fatalf("expected the document name among sources, got %+v", result.Sources)
	}

	hits, err := index.Search(context.Background(), query, 5, domain.SearchFilter{OwnerID: "u1", FileID: "f1"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) == 0 || hits[0].Score <= 0.65 {
		t.Fatalf("expected a winning score above the confidence threshold, got %+v", hits)
	}
	if !strings.Contains(gen.prompts[0], "gopher colony") {
		t.Fatalf("retrieved context missing from prompt: %q", gen.prompts[0])
	}
}
