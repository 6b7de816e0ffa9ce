package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

// streamChatResult replays a finished chat result as server-sent
// events: the answer in fixed-size deltas, then one metadata event
// carrying the resolved search type and sources.
func streamChatResult(w http.ResponseWriter, result *domain.ChatResult, chunkChars int) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusOK, result)
		return
	}
	if chunkChars <= 0 {
		chunkChars = 120
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for _, part := range splitByRunes(result.Message, chunkChars) {
		payload, err := json.Marshal(map[string]string{"delta": part})
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}

	meta, err := json.Marshal(map[string]any{
		"search_type": result.SearchType,
		"sources":     result.Sources,
	})
	if err == nil {
		_, _ = fmt.Fprintf(w, "data: %s\n\n", meta)
		flusher.Flush()
	}

	_, _ = io.WriteString(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func splitByRunes(text string, chunkChars int) []string {
	if text == "" {
		return []string{""}
	}
	if chunkChars <= 0 || utf8.RuneCountInString(text) <= chunkChars {
		return []string{text}
	}

	runes := []rune(text)
	parts := make([]string, 0, len(runes)/chunkChars+1)
	for start := 0; start < len(runes); start += chunkChars {
		end := start + chunkChars
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
