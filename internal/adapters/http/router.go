package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/core/ports"
	"github.com/AswanthAllu/agentic/internal/observability/metrics"
)

const serviceName = "api"

type RouterConfig struct {
	APIKey           string
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxInFlight      int
	StreamChunkChars int
}

type Router struct {
	cfg      RouterConfig
	files    ports.FileService
	chat     ports.ChatService
	mindmaps ports.MindMapService
	index    ports.VectorIndex
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg RouterConfig,
	files ports.FileService,
	chat ports.ChatService,
	mindmaps ports.MindMapService,
	index ports.VectorIndex,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		files:    files,
		chat:     chat,
		mindmaps: mindmaps,
		index:    index,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/files", rt.filesCollection)
	mux.HandleFunc("/v1/files/", rt.fileByID)
	mux.HandleFunc("/v1/chat/message", rt.chatStandard)
	mux.HandleFunc("/v1/chat/rag", rt.chatRAG)
	mux.HandleFunc("/v1/chat/deep-search", rt.chatDeepSearch)
	mux.HandleFunc("/v1/chat/agent", rt.chatAgent)
	mux.HandleFunc("/v1/mindmap/generate", rt.generateMindMap)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = authMiddleware(handler, rt.cfg.APIKey)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	if rt.cfg.MaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.MaxInFlight, 100*time.Millisecond)
	}
	if rt.cfg.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"status": "ok"}
	if rt.index != nil {
		if chunks, err := rt.index.Count(r.Context()); err == nil {
			payload["index_chunks"] = chunks
			if rt.metrics != nil {
				rt.metrics.SetIndexSize(serviceName, chunks)
			}
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (rt *Router) filesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadFile(w, r)
	case http.MethodGet:
		rt.listFiles(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	uploaded, err := rt.files.Upload(
		r.Context(),
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, uploaded)
}

func (rt *Router) listFiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	files, err := rt.files.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if files == nil {
		files = []domain.File{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (rt *Router) fileByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/files/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		file, err := rt.files.Get(r.Context(), userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, file)
	case http.MethodDelete:
		if err := rt.files.Delete(r.Context(), userID, id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

type chatRequest struct {
	Message         string           `json:"message"`
	FileID          string           `json:"file_id"`
	History         []domain.Message `json:"history"`
	AllowDeepSearch *bool            `json:"allow_deep_search"`
	Stream          bool             `json:"stream"`
}

// Fallback to web research is opt-out, matching the default client
// behavior.
func (r chatRequest) allowDeepSearch() bool {
	return r.AllowDeepSearch == nil || *r.AllowDeepSearch
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return req, false
	}
	return req, true
}

func (rt *Router) chatStandard(w http.ResponseWriter, r *http.Request) {
	rt.runChat(w, r, "chat", func(req chatRequest, userID string) (*domain.ChatResult, error) {
		return rt.chat.Standard(r.Context(), userID, req.Message, req.History)
	})
}

func (rt *Router) chatRAG(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rt.runChat(w, r, "rag", func(req chatRequest, userID string) (*domain.ChatResult, error) {
		result, err := rt.chat.RAG(r.Context(), userID, req.FileID, req.Message, req.History, req.allowDeepSearch())
		if err == nil && rt.metrics != nil {
			rt.metrics.RecordRAGObservation(serviceName, "rag", len(result.Sources), time.Since(start))
		}
		return result, err
	})
}

func (rt *Router) chatDeepSearch(w http.ResponseWriter, r *http.Request) {
	rt.runChat(w, r, "deep-search", func(req chatRequest, userID string) (*domain.ChatResult, error) {
		return rt.chat.DeepSearch(r.Context(), userID, req.Message)
	})
}

func (rt *Router) chatAgent(w http.ResponseWriter, r *http.Request) {
	rt.runChat(w, r, "agent", func(req chatRequest, userID string) (*domain.ChatResult, error) {
		result, err := rt.chat.Agent(r.Context(), userID, req.Message)
		if rt.metrics != nil {
			if err != nil {
				rt.metrics.RecordAgentRun(serviceName, "agent", "error", 0)
			} else {
				rt.metrics.RecordAgentRun(serviceName, "agent", "success", len(result.ToolCalls))
			}
		}
		return result, err
	})
}

func (rt *Router) runChat(
	w http.ResponseWriter,
	r *http.Request,
	endpoint string,
	run func(req chatRequest, userID string) (*domain.ChatResult, error),
) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	result, err := run(req, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordChatMode(serviceName, endpoint, string(result.SearchType))
		for _, sub := range result.SubQueries {
			rt.metrics.RecordSubQuery(serviceName, len(sub.Results), sub.Success)
		}
		for _, call := range result.ToolCalls {
			status := "success"
			if !call.Success {
				status = "error"
			}
			rt.metrics.RecordAgentToolCall(serviceName, call.Tool, status)
		}
	}
	if req.Stream {
		streamChatResult(w, result, rt.cfg.StreamChunkChars)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) generateMindMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		FileID string `json:"file_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.FileID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fileId is required"})
		return
	}

	mindMap, err := rt.mindmaps.Generate(r.Context(), userID, req.FileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mindMap)
}

const userIDHeader = "X-User-Id"

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "X-User-Id header is required"})
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
