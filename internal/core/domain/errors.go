package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrExtraction   = errors.New("extraction failed")
	ErrTemporary    = errors.New("temporary failure")
)

// Provider error kinds. LLM, embedding, and web-search backends are
// classified once at the infrastructure boundary; callers branch only on
// these kinds, never on raw provider strings.
var (
	ErrInvalidAPIKey   = errors.New("invalid api key")
	ErrRateLimited     = errors.New("rate limited")
	ErrContentBlocked  = errors.New("content blocked")
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrProviderUnknown = errors.New("provider error")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ClassifyProviderMessage maps a raw provider error message onto the coarse
// provider taxonomy. Pattern set mirrors the upstream Gemini error surface.
func ClassifyProviderMessage(message string) error {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "api key"):
		return ErrInvalidAPIKey
	case strings.Contains(lower, "rate limit"), strings.Contains(lower, "too many requests"):
		return ErrRateLimited
	case strings.Contains(lower, "blocked"), strings.Contains(lower, "safety"):
		return ErrContentBlocked
	case strings.Contains(lower, "quota"):
		return ErrQuotaExceeded
	default:
		return ErrProviderUnknown
	}
}
