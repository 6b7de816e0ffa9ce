package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

const (
	ragMissingFileMessage = "Please select a file to chat with from the 'My Files' list, or upload a new document first."
	ragFallbackMessage    = "I couldn't find a confident answer for that in your document. Try rephrasing the question or asking about a different part of the file."
)

// RAG answers from the selected document when retrieval is confident
// enough, and degrades to web research when it is not. Callers that
// disallow the degradation get the plain fallback message instead. The
// answer never silently mixes document and non-document knowledge: the
// search type always names the path taken.
func (uc *ChatUseCase) RAG(
	ctx context.Context,
	userID, fileID, message string,
	history []domain.Message,
	allowDeepSearch bool,
) (*domain.ChatResult, error) {
	if message == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "rag chat", fmt.Errorf("empty message"))
	}
	if fileID == "" {
		return &domain.ChatResult{
			Message:    ragMissingFileMessage,
			SearchType: domain.SearchTypeRAGError,
		}, nil
	}

	if err := uc.loader.EnsureLoaded(ctx, userID, fileID); err != nil {
		return nil, fmt.Errorf("ensure file indexed: %w", err)
	}

	filter := domain.SearchFilter{OwnerID: userID, FileID: fileID}
	chunks, err := uc.index.Search(ctx, message, uc.cfg.TopK, filter)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	if uc.confident(chunks) {
		return uc.answerFromChunks(ctx, message, chunks)
	}
	if !allowDeepSearch {
		return &domain.ChatResult{
			Message:    ragFallbackMessage,
			SearchType: domain.SearchTypeRAGFallback,
		}, nil
	}
	return uc.ragDegrade(ctx, message)
}

// confident requires at least one hit and a strictly greater top score
// than the threshold. A top score exactly at the threshold is not enough.
func (uc *ChatUseCase) confident(chunks []domain.RetrievedChunk) bool {
	return len(chunks) > 0 && chunks[0].Score > uc.cfg.ConfidenceThreshold
}

func (uc *ChatUseCase) answerFromChunks(
	ctx context.Context,
	message string,
	chunks []domain.RetrievedChunk,
) (*domain.ChatResult, error) {
	var b strings.Builder
	for _, chunk := range chunks {
		b.WriteString(chunk.Content)
		b.WriteString("\n\n")
	}

	prompt := fmt.Sprintf(`You are an expert assistant. Answer the user's question based ONLY on the following context from their document. If the context does not contain the answer, say that the document does not cover it.

Context:
%s
Question: %s`, b.String(), message)

	text, err := uc.gateway.GenerateText(ctx, domain.TaskChat, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate rag answer: %w", err)
	}

	return &domain.ChatResult{
		Message:    text,
		SearchType: domain.SearchTypeRAG,
		Sources:    documentSources(chunks),
	}, nil
}

// ragDegrade runs web research for the question with no chat history.
// The report comes back verbatim, zero-result summary included, so the
// caller sees exactly what the research produced. Research errors are
// already classified and propagate as-is.
func (uc *ChatUseCase) ragDegrade(ctx context.Context, message string) (*domain.ChatResult, error) {
	report, err := uc.runDeepSearch(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("rag web research: %w", err)
	}

	return &domain.ChatResult{
		Message:    report.Summary,
		SearchType: domain.SearchTypeDeepSearchFallback,
		Sources:    webSources(report.Sources),
		SubQueries: report.SubQueries,
	}, nil
}

// documentSources dedupes by document name so a multi-chunk answer lists
// each file once.
func documentSources(chunks []domain.RetrievedChunk) []domain.Source {
	seen := make(map[string]bool, len(chunks))
	sources := make([]domain.Source, 0, len(chunks))
	for _, chunk := range chunks {
		if seen[chunk.Source] {
			continue
		}
		seen[chunk.Source] = true
		sources = append(sources, domain.Source{Title: chunk.Source, Type: "document"})
	}
	return sources
}

func webSources(urls []string) []domain.Source {
	sources := make([]domain.Source, 0, len(urls))
	for _, u := range urls {
		sources = append(sources, domain.Source{Title: u, Type: "web"})
	}
	return sources
}
