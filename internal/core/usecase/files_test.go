package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

type fileRepoFake struct {
	created *domain.File
	file    *domain.File
	deleted bool
	err     error
}

func (f *fileRepoFake) Create(_ context.Context, file *domain.File) error {
	f.created = file
	return f.err
}
func (f *fileRepoFake) GetByID(context.Context, string, string) (*domain.File, error) {
	if f.file == nil {
		return nil, domain.ErrNotFound
	}
	return f.file, nil
}
func (f *fileRepoFake) ListByOwner(context.Context, string) ([]domain.File, error) { return nil, nil }
func (f *fileRepoFake) UpdateStatus(context.Context, string, domain.FileStatus, string, int) error {
	return nil
}
func (f *fileRepoFake) Delete(context.Context, string, string) error {
	f.deleted = true
	return nil
}

type storageFake struct {
	savedKey   string
	deletedKey string
	saveErr    error
}

func (f *storageFake) Save(_ context.Context, key string, _ io.Reader) error {
	f.savedKey = key
	return f.saveErr
}
func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) { return nil, nil }
func (f *storageFake) Delete(_ context.Context, key string) error {
	f.deletedKey = key
	return nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishFileUploaded(_ context.Context, fileID string) error {
	f.published = append(f.published, fileID)
	return f.err
}
func (f *queueFake) SubscribeFileUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestUploadCreatesAndPublishes(t *testing.T) {
	repo := &fileRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewFileUseCase(repo, storage, queue, &chatIndexFake{})

	file, err := uc.Upload(context.Background(), "u1", "My Report.pdf", "application/pdf", bytes.NewBufferString("data"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if file.Status != domain.FileStatusUploaded {
		t.Fatalf("expected uploaded status, got %s", file.Status)
	}
	if file.OwnerID != "u1" {
		t.Fatalf("owner not set: %+v", file)
	}
	if !strings.HasSuffix(storage.savedKey, "_My_Report.pdf") {
		t.Fatalf("unexpected storage key %q", storage.savedKey)
	}
	if len(queue.published) != 1 || queue.published[0] != file.ID {
		t.Fatalf("ingestion event not published: %v", queue.published)
	}
}

func TestUploadMissingOwner(t *testing.T) {
	uc := NewFileUseCase(&fileRepoFake{}, &storageFake{}, &queueFake{}, &chatIndexFake{})
	_, err := uc.Upload(context.Background(), "", "a.txt", "text/plain", bytes.NewBufferString("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUploadStorageError(t *testing.T) {
	uc := NewFileUseCase(&fileRepoFake{}, &storageFake{saveErr: errors.New("disk full")}, &queueFake{}, &chatIndexFake{})
	if _, err := uc.Upload(context.Background(), "u1", "a.txt", "text/plain", bytes.NewBufferString("x")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDeleteRemovesVectorsAndBlob(t *testing.T) {
	repo := &fileRepoFake{file: &domain.File{ID: "f1", OwnerID: "u1", StoragePath: "f1_a.txt"}}
	storage := &storageFake{}
	uc := NewFileUseCase(repo, storage, &queueFake{}, &chatIndexFake{})

	if err := uc.Delete(context.Background(), "u1", "f1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !repo.deleted {
		t.Fatalf("metadata row not deleted")
	}
	if storage.deletedKey != "f1_a.txt" {
		t.Fatalf("blob not deleted, got %q", storage.deletedKey)
	}
}

func TestDeleteUnknownFile(t *testing.T) {
	uc := NewFileUseCase(&fileRepoFake{}, &storageFake{}, &queueFake{}, &chatIndexFake{})
	if err := uc.Delete(context.Background(), "u1", "missing"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"My Report.pdf":      "My_Report.pdf",
		"../../etc/passwd":   "passwd",
		"weird*name?.txt":    "weird_name_.txt",
		"":                   "file.bin",
		"ok-file_name.1.txt": "ok-file_name.1.txt",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
