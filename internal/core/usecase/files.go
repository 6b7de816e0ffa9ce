package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/core/ports"
)

type FileUseCase struct {
	repo    ports.FileRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	index   ports.VectorIndex
}

func NewFileUseCase(
	repo ports.FileRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	index ports.VectorIndex,
) *FileUseCase {
	return &FileUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		index:   index,
	}
}

func (uc *FileUseCase) Upload(
	ctx context.Context,
	ownerID, filename, mimeType string,
	body io.Reader,
) (*domain.File, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload file", fmt.Errorf("missing owner id"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	file := &domain.File{
		ID:          id,
		OwnerID:     ownerID,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.FileStatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("create file metadata: %w", err)
	}

	if err := uc.queue.PublishFileUploaded(ctx, file.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return file, nil
}

func (uc *FileUseCase) Get(ctx context.Context, ownerID, fileID string) (*domain.File, error) {
	file, err := uc.repo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return nil, fmt.Errorf("fetch file by id: %w", err)
	}
	return file, nil
}

func (uc *FileUseCase) List(ctx context.Context, ownerID string) ([]domain.File, error) {
	files, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Delete removes the metadata row, indexed vectors, and the stored blob.
// Vector and blob cleanup failures are tolerated once the row is gone.
func (uc *FileUseCase) Delete(ctx context.Context, ownerID, fileID string) error {
	file, err := uc.repo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return fmt.Errorf("fetch file by id: %w", err)
	}

	if err := uc.repo.Delete(ctx, ownerID, fileID); err != nil {
		return fmt.Errorf("delete file metadata: %w", err)
	}

	if _, err := uc.index.DeleteByFile(ctx, ownerID, fileID); err != nil {
		return fmt.Errorf("delete file vectors: %w", err)
	}

	if err := uc.storage.Delete(ctx, file.StoragePath); err != nil {
		return fmt.Errorf("delete stored object: %w", err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "file.bin"
	}
	return base
}
