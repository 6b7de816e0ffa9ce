package ports

import (
	"context"
	"io"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

// FileRepository persists uploaded file metadata and lifecycle state.
type FileRepository interface {
	Create(ctx context.Context, file *domain.File) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.File, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.File, error)
	UpdateStatus(ctx context.Context, id string, status domain.FileStatus, errMessage string, chunkCount int) error
	Delete(ctx context.Context, ownerID, id string) error
}

// ObjectStorage stores raw uploaded files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes file-uploaded events for detached ingestion.
type MessageQueue interface {
	PublishFileUploaded(ctx context.Context, fileID string) error
	SubscribeFileUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored file.
type TextExtractor interface {
	Extract(ctx context.Context, path, mimeType string) (string, error)
}

// Chunker splits extracted text into retrievable chunks.
type Chunker interface {
	Split(text, source string) []domain.Chunk
}

// Embedder builds vectors for chunk and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores tagged chunks and performs filtered semantic search.
// Search takes query text; embedding happens behind the port so callers
// never handle raw vectors.
type VectorIndex interface {
	Insert(ctx context.Context, chunks []domain.Chunk) error
	Search(ctx context.Context, query string, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error)
	DeleteByFile(ctx context.Context, ownerID, fileID string) (int, error)
	CountByFile(ctx context.Context, ownerID, fileID string) (int, error)
	Count(ctx context.Context) (int, error)
}

// TextGenerator is the raw LLM surface. Model ids are chosen by the
// gateway's selection policy, never by callers directly.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	GenerateWithHistory(ctx context.Context, model string, history []domain.Message, prompt string) (string, error)
}

// WebSearcher queries the external web-search collaborator.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) (*domain.WebSearchResponse, error)
}
