package ports

import (
	"context"
	"io"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

// FileService is the inbound contract for upload and file lifecycle.
type FileService interface {
	Upload(ctx context.Context, ownerID, filename, mimeType string, body io.Reader) (*domain.File, error)
	Get(ctx context.Context, ownerID, fileID string) (*domain.File, error)
	List(ctx context.Context, ownerID string) ([]domain.File, error)
	Delete(ctx context.Context, ownerID, fileID string) error
}

// FileIngestor is the inbound contract for asynchronous ingestion.
type FileIngestor interface {
	IngestByID(ctx context.Context, fileID string) error
}

// ChatService is the inbound contract for all chat modes.
type ChatService interface {
	Standard(ctx context.Context, userID, message string, history []domain.Message) (*domain.ChatResult, error)
	RAG(ctx context.Context, userID, fileID, message string, history []domain.Message, allowDeepSearch bool) (*domain.ChatResult, error)
	DeepSearch(ctx context.Context, userID, message string) (*domain.ChatResult, error)
	Agent(ctx context.Context, userID, message string) (*domain.ChatResult, error)
}

// MindMapService generates mind maps from file content.
type MindMapService interface {
	Generate(ctx context.Context, ownerID, fileID string) (*domain.MindMap, error)
}
