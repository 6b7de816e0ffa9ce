package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

// runTool dispatches one plan step. Unknown tools are an error the
// executor folds into the running answer.
func (uc *ChatUseCase) runTool(ctx context.Context, tool string, args []string) (string, error) {
	switch tool {
	case "web_search":
		return uc.toolWebSearch(ctx, args)
	case "file_search":
		return uc.toolFileSearch(ctx, args)
	case "read_file":
		return uc.toolReadFile(ctx, args)
	case "summarize":
		return uc.toolSummarize(ctx, args)
	case "generate_report":
		return uc.toolGenerateReport(ctx, args)
	default:
		return "", domain.WrapError(domain.ErrInvalidInput, "run tool", fmt.Errorf("unknown tool %q", tool))
	}
}

func (uc *ChatUseCase) toolWebSearch(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 || args[0] == "" {
		return "", fmt.Errorf("web_search needs a query")
	}
	resp, err := uc.web.Search(ctx, args[0], uc.cfg.TopK)
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "No web results found.", nil
	}

	var b strings.Builder
	for _, hit := range resp.Results {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", hit.Title, hit.Snippet, hit.URL)
	}
	return b.String(), nil
}

func (uc *ChatUseCase) toolFileSearch(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("file_search needs a query and a user id")
	}
	chunks, err := uc.index.Search(ctx, args[0], uc.cfg.TopK, domain.SearchFilter{OwnerID: args[1]})
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "No matching passages in the user's documents.", nil
	}

	var b strings.Builder
	for _, chunk := range chunks {
		fmt.Fprintf(&b, "[%s] %s\n", chunk.Source, chunk.Content)
	}
	return b.String(), nil
}

func (uc *ChatUseCase) toolReadFile(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("read_file needs a file id and a user id")
	}
	file, err := uc.repo.GetByID(ctx, args[1], args[0])
	if err != nil {
		return "", err
	}
	text, err := uc.extractor.Extract(ctx, file.StoragePath, file.MimeType)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (uc *ChatUseCase) toolSummarize(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("summarize needs text")
	}
	summary, err := uc.gateway.Summary(ctx, args[0])
	if err != nil {
		return "", err
	}
	return summary.Text, nil
}

func (uc *ChatUseCase) toolGenerateReport(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("generate_report needs a topic and content")
	}
	return uc.gateway.Report(ctx, args[0], args[1])
}
