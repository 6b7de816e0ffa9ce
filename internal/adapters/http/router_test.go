package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

type fileServiceFake struct {
	uploadErr error
	getErr    error
	deleteErr error
	files     []domain.File
}

func (f *fileServiceFake) Upload(_ context.Context, ownerID, filename, mimeType string, body io.Reader) (*domain.File, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}

	now := time.Now().UTC()
	return &domain.File{
		ID:          "file-1",
		OwnerID:     ownerID,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "file-1_" + filename,
		Status:      domain.FileStatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (f *fileServiceFake) Get(_ context.Context, ownerID, fileID string) (*domain.File, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.File{ID: fileID, OwnerID: ownerID, Status: domain.FileStatusReady}, nil
}

func (f *fileServiceFake) List(context.Context, string) ([]domain.File, error) {
	return f.files, nil
}

func (f *fileServiceFake) Delete(context.Context, string, string) error {
	return f.deleteErr
}

type chatServiceFake struct {
	result *domain.ChatResult
	err    error

	lastUserID string
	lastFileID string
	lastAllow  bool
}

func (f *chatServiceFake) Standard(_ context.Context, userID, message string, _ []domain.Message) (*domain.ChatResult, error) {
	f.lastUserID = userID
	return f.reply(message)
}

func (f *chatServiceFake) RAG(_ context.Context, userID, fileID, message string, _ []domain.Message, allowDeepSearch bool) (*domain.ChatResult, error) {
	f.lastUserID = userID
	f.lastFileID = fileID
	f.lastAllow = allowDeepSearch
	return f.reply(message)
}

func (f *chatServiceFake) DeepSearch(_ context.Context, userID, message string) (*domain.ChatResult, error) {
	f.lastUserID = userID
	return f.reply(message)
}

func (f *chatServiceFake) Agent(_ context.Context, userID, message string) (*domain.ChatResult, error) {
	f.lastUserID = userID
	return f.reply(message)
}

func (f *chatServiceFake) reply(string) (*domain.ChatResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.ChatResult{Message: "answer", SearchType: domain.SearchTypeStandard}, nil
}

type mindMapServiceFake struct {
	mindMap *domain.MindMap
	err     error
}

func (f *mindMapServiceFake) Generate(context.Context, string, string) (*domain.MindMap, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.mindMap != nil {
		return f.mindMap, nil
	}
	return &domain.MindMap{Nodes: []domain.MindMapNode{{ID: "1"}}}, nil
}

func newTestRouter(cfg RouterConfig, chat *chatServiceFake) http.Handler {
	return NewRouter(cfg, &fileServiceFake{}, chat, &mindMapServiceFake{}, nil, nil).Handler()
}

func postJSON(t *testing.T, handler http.Handler, path string, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userIDHeader, "u1")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestHealthzEndpoint(t *testing.T) {
	handler := newTestRouter(RouterConfig{}, &chatServiceFake{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestUploadFileSuccess(t *testing.T) {
	handler := newTestRouter(RouterConfig{}, &chatServiceFake{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "file.txt")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/files", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(userIDHeader, "u1")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}
	var fileResp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&fileResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if fileResp["id"] != "file-1" {
		t.Fatalf("unexpected response: %+v", fileResp)
	}
}

func TestUploadFileMissingMultipartField(t *testing.T) {
	handler := newTestRouter(RouterConfig{}, &chatServiceFake{})

	req := httptest.NewRequest(http.MethodPost, "/v1/files", strings.NewReader("plain-text"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set(userIDHeader, "u1")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestFileEndpointsRequireUserHeader(t *testing.T) {
	handler := newTestRouter(RouterConfig{}, &chatServiceFake{})

	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without user header, got %d", res.Code)
	}
}

func TestChatRAGForwardsFileAndUser(t *testing.T) {
	chat := &chatServiceFake{result: &domain.ChatResult{
		Message:    "from the doc",
		SearchType: domain.SearchTypeRAG,
		Sources:    []domain.Source{{Title: "a.txt", Type: "document"}},
	}}
	handler := newTestRouter(RouterConfig{}, chat)

	res := postJSON(t, handler, "/v1/chat/rag", map[string]any{
		"message": "what does it say?",
		"file_id": "file-1",
	})

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if chat.lastUserID != "u1" || chat.lastFileID != "file-1" {
		t.Fatalf("request not forwarded: user=%q file=%q", chat.lastUserID, chat.lastFileID)
	}
	if !chat.lastAllow {
		t.Fatalf("deep search fallback should default to allowed")
	}
	var result domain.ChatResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.SearchType != domain.SearchTypeRAG || len(result.Sources) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	handler := newTestRouter(RouterConfig{}, &chatServiceFake{})

	res := postJSON(t, handler, "/v1/chat/message", map[string]any{"message": "  "})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestChatStreamEmitsSSE(t *testing.T) {
	chat := &chatServiceFake{result: &domain.ChatResult{
		Message:    "streamed answer",
		SearchType: domain.SearchTypeDeepSearch,
	}}
	handler := newTestRouter(RouterConfig{StreamChunkChars: 5}, chat)

	res := postJSON(t, handler, "/v1/chat/deep-search", map[string]any{
		"message": "query",
		"stream":  true,
	})

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected SSE content type, got %q", ct)
	}
	body := res.Body.String()
	if !strings.Contains(body, `"delta":"strea"`) {
		t.Fatalf("expected chunked deltas, got %s", body)
	}
	if !strings.Contains(body, "data: [DONE]") {
		t.Fatalf("expected DONE terminator, got %s", body)
	}
}

func TestMindMapGenerate(t *testing.T) {
	handler := newTestRouter(RouterConfig{}, &chatServiceFake{})

	res := postJSON(t, handler, "/v1/mindmap/generate", map[string]any{"file_id": "file-1"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	res = postJSON(t, handler, "/v1/mindmap/generate", map[string]any{})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without fileId, got %d", res.Code)
	}
}

func TestAuthMiddlewareGuardsV1Surface(t *testing.T) {
	handler := newTestRouter(RouterConfig{APIKey: "secret"}, &chatServiceFake{})

	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.Header.Set(userIDHeader, "u1")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.Header.Set(userIDHeader, "u1")
	req.Header.Set("Authorization", "Bearer secret")
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", res.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("healthz should bypass auth, got %d", res.Code)
	}
}
