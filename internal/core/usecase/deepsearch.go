package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

const deepSearchEmptyMessage = "I searched the web but couldn't find enough relevant results for your query. Try rephrasing it or making it more specific."

// DeepSearch decomposes the question into sub-queries, searches the web for
// each, and synthesizes one report. Each sub-query fails independently.
func (uc *ChatUseCase) DeepSearch(
	ctx context.Context,
	userID, message string,
) (*domain.ChatResult, error) {
	if message == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "deep search", fmt.Errorf("empty message"))
	}

	report, err := uc.runDeepSearch(ctx, message)
	if err != nil {
		return nil, err
	}

	if !report.AIGenerated {
		return &domain.ChatResult{
			Message:    report.Summary,
			SearchType: domain.SearchTypeDeepSearchFallback,
			SubQueries: report.SubQueries,
		}, nil
	}

	return &domain.ChatResult{
		Message:    report.Summary,
		SearchType: domain.SearchTypeDeepSearch,
		Sources:    webSources(report.Sources),
		SubQueries: report.SubQueries,
	}, nil
}

func (uc *ChatUseCase) runDeepSearch(ctx context.Context, message string) (*domain.SearchReport, error) {
	queries := uc.decompose(ctx, message)

	subResults := make([]domain.SubQueryResult, 0, len(queries))
	total := 0
	for i, query := range queries {
		if i > 0 {
			// Spacing between sub-queries keeps the collaborator's
			// rate limiter quiet.
			select {
			case <-time.After(uc.cfg.SubQueryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result := uc.runSubQuery(ctx, query)
		subResults = append(subResults, result)
		total += len(result.Results)

		if len(result.Results) > uc.cfg.EarlyStopResults {
			break
		}
	}

	if total == 0 {
		return &domain.SearchReport{
			Summary:     deepSearchEmptyMessage,
			SubQueries:  subResults,
			AIGenerated: false,
		}, nil
	}

	return uc.synthesize(ctx, message, subResults)
}

// decompose asks the reasoning tier for sub-queries and caps them at the
// configured maximum. Any planner failure degrades to searching the
// original message verbatim.
func (uc *ChatUseCase) decompose(ctx context.Context, message string) []string {
	prompt := fmt.Sprintf(`Break the following question into at most %d focused web search queries.
Respond with a JSON object: {"coreQuestion": "...", "searchQueries": ["...", "..."]}.
Respond with JSON only.

Question: %s`, uc.cfg.MaxSubQueries, message)

	raw, err := uc.gateway.GenerateText(ctx, domain.TaskReasoning, prompt)
	if err != nil {
		return []string{message}
	}

	var decomposition domain.Decomposition
	if err := decodeJSONBlock(raw, &decomposition, "searchQueries"); err != nil {
		return []string{message}
	}

	queries := make([]string, 0, uc.cfg.MaxSubQueries)
	for _, q := range decomposition.SearchQueries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) == uc.cfg.MaxSubQueries {
			break
		}
	}
	if len(queries) == 0 {
		return []string{message}
	}
	return queries
}

func (uc *ChatUseCase) runSubQuery(ctx context.Context, query string) domain.SubQueryResult {
	resp, err := uc.web.Search(ctx, query, uc.cfg.TopK)
	if err != nil {
		return domain.SubQueryResult{
			Query:       query,
			Success:     false,
			Error:       err.Error(),
			RateLimited: domain.IsKind(err, domain.ErrRateLimited),
		}
	}
	return domain.SubQueryResult{
		Query:       query,
		Results:     resp.Results,
		Success:     true,
		RateLimited: resp.RateLimited,
	}
}

func (uc *ChatUseCase) synthesize(
	ctx context.Context,
	message string,
	subResults []domain.SubQueryResult,
) (*domain.SearchReport, error) {
	var b strings.Builder
	sources := make([]string, 0, 8)
	seen := make(map[string]bool)
	for _, sub := range subResults {
		for _, hit := range sub.Results {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", hit.Title, hit.Snippet, hit.URL)
			if !seen[hit.URL] {
				seen[hit.URL] = true
				sources = append(sources, hit.URL)
			}
		}
	}

	prompt := fmt.Sprintf(`You are a research assistant. Using only the web results below, write a clear, well-organized answer to the question. Cite nothing the results do not support.

Question: %s

Web results:
%s`, message, b.String())

	summary, err := uc.gateway.GenerateText(ctx, domain.TaskReasoning, prompt)
	if err != nil {
		return nil, fmt.Errorf("synthesize search report: %w", err)
	}

	return &domain.SearchReport{
		Summary:     summary,
		Sources:     sources,
		SubQueries:  subResults,
		AIGenerated: true,
		Confidence:  reportConfidence(subResults),
	}, nil
}

func reportConfidence(subResults []domain.SubQueryResult) float64 {
	if len(subResults) == 0 {
		return 0
	}
	succeeded := 0
	for _, sub := range subResults {
		if sub.Success && len(sub.Results) > 0 {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(subResults))
}
