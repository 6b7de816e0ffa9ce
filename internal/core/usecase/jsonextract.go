package usecase

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

// extractJSONBlock pulls the first balanced JSON object or array out of an
// LLM reply. Models routinely wrap JSON in code fences or prose; the
// extractor strips fences first, then scans for a balanced span.
func extractJSONBlock(raw string) (string, error) {
	cleaned := stripCodeFences(raw)

	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		if block, ok := balancedSpan(cleaned, pair[0], pair[1]); ok {
			if json.Valid([]byte(block)) {
				return block, nil
			}
		}
	}
	return "", domain.WrapError(domain.ErrInvalidInput, "extract json", errors.New("no valid json block in response"))
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	return strings.TrimSpace(cleaned)
}

func balancedSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// decodeJSONBlock extracts and unmarshals in one step, with required
// top-level key validation for objects.
func decodeJSONBlock(raw string, out any, requiredKeys ...string) error {
	block, err := extractJSONBlock(raw)
	if err != nil {
		return err
	}

	if len(requiredKeys) > 0 {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal([]byte(block), &probe); err != nil {
			return domain.WrapError(domain.ErrInvalidInput, "decode json", err)
		}
		for _, key := range requiredKeys {
			if _, ok := probe[key]; !ok {
				return domain.WrapError(domain.ErrInvalidInput, "decode json", errors.New("missing key "+key))
			}
		}
	}

	if err := json.Unmarshal([]byte(block), out); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "decode json", err)
	}
	return nil
}
