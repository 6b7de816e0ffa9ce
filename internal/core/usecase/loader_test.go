package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type slowIngestorFake struct {
	calls atomic.Int32
	err   error
}

func (f *slowIngestorFake) IngestByID(context.Context, string) error {
	f.calls.Add(1)
	time.Sleep(10 * time.Millisecond)
	return f.err
}

func TestEnsureLoadedAlreadyIndexed(t *testing.T) {
	ingestor := &ingestorFake{}
	loader := NewIndexLoader(&chatIndexFake{countFile: 4}, ingestor)

	if err := loader.EnsureLoaded(context.Background(), "u1", "f1"); err != nil {
		t.Fatalf("EnsureLoaded() error = %v", err)
	}
	if ingestor.calls != 0 {
		t.Fatalf("indexed file must not re-ingest, got %d calls", ingestor.calls)
	}
}

func TestEnsureLoadedConcurrentSingleIngest(t *testing.T) {
	ingestor := &slowIngestorFake{}
	loader := NewIndexLoader(&chatIndexFake{}, ingestor)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := loader.EnsureLoaded(context.Background(), "u1", "f1"); err != nil {
				t.Errorf("EnsureLoaded() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := ingestor.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one ingest, got %d", got)
	}
}

func TestEnsureLoadedRetriesAfterFailure(t *testing.T) {
	ingestor := &slowIngestorFake{err: errors.New("ingest failed")}
	loader := NewIndexLoader(&chatIndexFake{}, ingestor)

	if err := loader.EnsureLoaded(context.Background(), "u1", "f1"); err == nil {
		t.Fatalf("expected first attempt to fail")
	}

	ingestor.err = nil
	if err := loader.EnsureLoaded(context.Background(), "u1", "f1"); err != nil {
		t.Fatalf("retry after failure should succeed, got %v", err)
	}
	if got := ingestor.calls.Load(); got != 2 {
		t.Fatalf("expected two ingest attempts, got %d", got)
	}
}
