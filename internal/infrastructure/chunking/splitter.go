package chunking

import (
	"fmt"
	"strings"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

// Split cuts text into overlapping windows. When a window's right edge
// lands mid-word the cut moves back to the last space, so words are never
// split across chunks. The final window always extends to the end of the
// text.
func (s *Splitter) Split(text, source string) []domain.Chunk {
	runes := []rune(text)
	n := len(runes)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	out := make([]domain.Chunk, 0, n/s.ChunkSize+1)
	seq := 0
	start := 0
	for start < n {
		end := start + s.ChunkSize
		if end > n {
			end = n
		}

		actualEnd := end
		if end < n && !isSpace(runes[end]) && !isSpace(runes[end-1]) {
			if idx := lastSpace(runes, start, end); idx > start {
				actualEnd = idx
			}
		}

		chunkText := strings.TrimSpace(string(runes[start:actualEnd]))
		if chunkText != "" {
			out = append(out, domain.Chunk{
				Text:     chunkText,
				Source:   source,
				ChunkID:  fmt.Sprintf("%s_chunk_%d", source, seq),
				Sequence: seq,
			})
			seq++
		}

		if actualEnd >= n {
			break
		}

		next := actualEnd - s.Overlap
		if next <= start {
			next = actualEnd
		}
		start = next
	}
	return out
}

func lastSpace(runes []rune, start, end int) int {
	for i := end - 1; i > start; i-- {
		if isSpace(runes[i]) {
			return i
		}
	}
	return -1
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
