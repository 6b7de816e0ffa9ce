package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/core/ports"
)

// IngestUseCase runs the extract, chunk, tag, insert pipeline for one
// uploaded file.
type IngestUseCase struct {
	repo      ports.FileRepository
	extractor ports.TextExtractor
	chunker   ports.Chunker
	index     ports.VectorIndex
}

func NewIngestUseCase(
	repo ports.FileRepository,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	index ports.VectorIndex,
) *IngestUseCase {
	return &IngestUseCase{
		repo:      repo,
		extractor: extractor,
		chunker:   chunker,
		index:     index,
	}
}

// IngestByID loads the file, extracts its text, and inserts tagged chunks
// into the vector index. Extraction failures degrade to zero chunks: the
// file still becomes ready, only retrieval finds nothing for it.
func (uc *IngestUseCase) IngestByID(ctx context.Context, fileID string) error {
	if err := uc.repo.UpdateStatus(ctx, fileID, domain.FileStatusProcessing, "", 0); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	added, err := uc.runPipeline(ctx, fileID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, fileID, domain.FileStatusFailed, err.Error(), 0); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, fileID, domain.FileStatusReady, "", added); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *IngestUseCase) runPipeline(ctx context.Context, fileID string) (int, error) {
	file, err := uc.repo.GetByID(ctx, "", fileID)
	if err != nil {
		return 0, fmt.Errorf("fetch file by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, file.StoragePath, file.MimeType)
	if err != nil {
		// Unreadable files index nothing instead of failing the upload.
		// The error is logged so an unreadable file can be told apart
		// from a genuinely empty one.
		slog.Warn("text extraction failed, indexing zero chunks",
			"file_id", file.ID,
			"filename", file.Filename,
			"mime_type", file.MimeType,
			"error", err,
		)
		return 0, nil
	}
	if text == "" {
		return 0, nil
	}

	chunks := uc.chunker.Split(text, file.Filename)
	for i := range chunks {
		chunks[i].OwnerID = file.OwnerID
		chunks[i].FileID = file.ID
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := uc.index.Insert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("insert chunks into index: %w", err)
	}
	return len(chunks), nil
}
