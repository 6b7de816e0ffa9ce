package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/AswanthAllu/agentic/internal/core/ports"
)

// IndexLoader guarantees a file's chunks are present in the vector index
// before retrieval, ingesting at most once per file even under concurrent
// requests. Callers arriving while an ingest is in flight wait on the same
// handle instead of starting a duplicate.
type IndexLoader struct {
	index    ports.VectorIndex
	ingestor ports.FileIngestor

	mu       sync.Mutex
	inflight map[string]*loadHandle
}

type loadHandle struct {
	done chan struct{}
	err  error
}

func NewIndexLoader(index ports.VectorIndex, ingestor ports.FileIngestor) *IndexLoader {
	return &IndexLoader{
		index:    index,
		ingestor: ingestor,
		inflight: make(map[string]*loadHandle),
	}
}

func (l *IndexLoader) EnsureLoaded(ctx context.Context, ownerID, fileID string) error {
	count, err := l.index.CountByFile(ctx, ownerID, fileID)
	if err != nil {
		return fmt.Errorf("count indexed chunks: %w", err)
	}
	if count > 0 {
		return nil
	}

	l.mu.Lock()
	if handle, ok := l.inflight[fileID]; ok {
		l.mu.Unlock()
		select {
		case <-handle.done:
			return handle.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	handle := &loadHandle{done: make(chan struct{})}
	l.inflight[fileID] = handle
	l.mu.Unlock()

	handle.err = l.ingestor.IngestByID(ctx, fileID)
	close(handle.done)

	// Failed loads are forgotten so the next caller retries.
	l.mu.Lock()
	delete(l.inflight, fileID)
	l.mu.Unlock()

	return handle.err
}
