package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

type chatGenFake struct {
	responses []string
	errs      map[int]error
	prompts   []string
	calls     int
}

func (f *chatGenFake) next(prompt string) (string, error) {
	idx := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if err, ok := f.errs[idx]; ok {
		return "", err
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return "out", nil
}

func (f *chatGenFake) Generate(_ context.Context, _ string, prompt string) (string, error) {
	return f.next(prompt)
}

func (f *chatGenFake) GenerateWithHistory(_ context.Context, _ string, _ []domain.Message, prompt string) (string, error) {
	return f.next(prompt)
}

type chatIndexFake struct {
	chunks     []domain.RetrievedChunk
	searchErr  error
	filter     domain.SearchFilter
	limit      int
	countFile  int
	insertErrs error
}

func (f *chatIndexFake) Insert(context.Context, []domain.Chunk) error { return f.insertErrs }
func (f *chatIndexFake) Search(_ context.Context, _ string, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error) {
	f.limit = limit
	f.filter = filter
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.chunks, nil
}
func (f *chatIndexFake) DeleteByFile(context.Context, string, string) (int, error) { return 0, nil }
func (f *chatIndexFake) CountByFile(context.Context, string, string) (int, error) {
	return f.countFile, nil
}
func (f *chatIndexFake) Count(context.Context) (int, error) { return 0, nil }

type chatWebFake struct {
	responses []*domain.WebSearchResponse
	errs      []error
	queries   []string
}

func (f *chatWebFake) Search(_ context.Context, query string, _ int) (*domain.WebSearchResponse, error) {
	idx := len(f.queries)
	f.queries = append(f.queries, query)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return &domain.WebSearchResponse{}, nil
}

type chatRepoFake struct {
	file *domain.File
	err  error
}

func (f *chatRepoFake) Create(context.Context, *domain.File) error { return nil }
func (f *chatRepoFake) GetByID(context.Context, string, string) (*domain.File, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.file, nil
}
func (f *chatRepoFake) ListByOwner(context.Context, string) ([]domain.File, error) { return nil, nil }
func (f *chatRepoFake) UpdateStatus(context.Context, string, domain.FileStatus, string, int) error {
	return nil
}
func (f *chatRepoFake) Delete(context.Context, string, string) error { return nil }

type chatExtractorFake struct {
	text string
	err  error
}

func (f *chatExtractorFake) Extract(context.Context, string, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type ingestorFake struct {
	calls int
	err   error
}

func (f *ingestorFake) IngestByID(context.Context, string) error {
	f.calls++
	return f.err
}

func newTestChat(gen *chatGenFake, index *chatIndexFake, web *chatWebFake) *ChatUseCase {
	loader := NewIndexLoader(index, &ingestorFake{})
	return NewChatUseCase(
		NewLLMGateway(gen, DefaultModelPolicy()),
		index,
		loader,
		&chatRepoFake{file: &domain.File{ID: "f1", OwnerID: "u1", Filename: "notes.txt"}},
		&chatExtractorFake{text: "file body"},
		web,
		ChatConfig{SubQueryDelay: time.Millisecond},
	)
}

func TestStandardChat(t *testing.T) {
	gen := &chatGenFake{responses: []string{"hello there"}}
	uc := newTestChat(gen, &chatIndexFake{}, &chatWebFake{})

	result, err := uc.Standard(context.Background(), "u1", "hi", nil)
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}
	if result.SearchType != domain.SearchTypeStandard {
		t.Fatalf("expected standard search type, got %s", result.SearchType)
	}
	if result.Message != "hello there" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestStandardChatEmptyMessage(t *testing.T) {
	uc := newTestChat(&chatGenFake{}, &chatIndexFake{}, &chatWebFake{})
	_, err := uc.Standard(context.Background(), "u1", "", nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestStandardChatGeneratorError(t *testing.T) {
	gen := &chatGenFake{errs: map[int]error{0: errors.New("provider down")}}
	uc := newTestChat(gen, &chatIndexFake{}, &chatWebFake{})
	if _, err := uc.Standard(context.Background(), "u1", "hi", nil); err == nil {
		t.Fatalf("expected error")
	}
}
