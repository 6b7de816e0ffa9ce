package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/core/ports"
)

// ChatConfig carries the retrieval and search knobs for all chat modes.
type ChatConfig struct {
	TopK                int
	ConfidenceThreshold float64
	MaxSubQueries       int
	SubQueryDelay       time.Duration
	EarlyStopResults    int
	MaxAgentSteps       int
}

func (c *ChatConfig) normalize() {
	if c.TopK <= 0 {
		c.TopK = 5
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = 0.65
	}
	if c.MaxSubQueries <= 0 {
		c.MaxSubQueries = 2
	}
	if c.SubQueryDelay <= 0 {
		c.SubQueryDelay = 3 * time.Second
	}
	if c.EarlyStopResults <= 0 {
		c.EarlyStopResults = 3
	}
	if c.MaxAgentSteps <= 0 {
		c.MaxAgentSteps = 8
	}
}

// ChatUseCase serves every chat mode: plain generation, document-grounded
// answers, multi-query web research, and tool-driven agent runs.
type ChatUseCase struct {
	gateway   *LLMGateway
	index     ports.VectorIndex
	loader    *IndexLoader
	repo      ports.FileRepository
	extractor ports.TextExtractor
	web       ports.WebSearcher
	cfg       ChatConfig
}

func NewChatUseCase(
	gateway *LLMGateway,
	index ports.VectorIndex,
	loader *IndexLoader,
	repo ports.FileRepository,
	extractor ports.TextExtractor,
	web ports.WebSearcher,
	cfg ChatConfig,
) *ChatUseCase {
	cfg.normalize()
	return &ChatUseCase{
		gateway:   gateway,
		index:     index,
		loader:    loader,
		repo:      repo,
		extractor: extractor,
		web:       web,
		cfg:       cfg,
	}
}

func (uc *ChatUseCase) Standard(
	ctx context.Context,
	userID, message string,
	history []domain.Message,
) (*domain.ChatResult, error) {
	if message == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "standard chat", fmt.Errorf("empty message"))
	}

	text, err := uc.gateway.ChatResponse(ctx, message, history)
	if err != nil {
		return nil, fmt.Errorf("standard chat: %w", err)
	}

	return &domain.ChatResult{
		Message:    text,
		SearchType: domain.SearchTypeStandard,
	}, nil
}
