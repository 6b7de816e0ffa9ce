package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/core/ports"
)

// LLMGateway is the single entry point for text generation. It owns model
// selection and structured-output decoding so callers deal only in domain
// types.
type LLMGateway struct {
	generator ports.TextGenerator
	policy    *ModelPolicy
}

func NewLLMGateway(generator ports.TextGenerator, policy *ModelPolicy) *LLMGateway {
	if policy == nil {
		policy = DefaultModelPolicy()
	}
	return &LLMGateway{generator: generator, policy: policy}
}

func (g *LLMGateway) GenerateText(ctx context.Context, task domain.TaskType, prompt string) (string, error) {
	model := g.policy.SelectModel(task, prompt)
	text, err := g.generator.Generate(ctx, model, prompt)
	if err != nil {
		return "", fmt.Errorf("generate text: %w", err)
	}
	return text, nil
}

func (g *LLMGateway) ChatResponse(ctx context.Context, message string, history []domain.Message) (string, error) {
	model := g.policy.SelectModel(domain.TaskChat, message)
	text, err := g.generator.GenerateWithHistory(ctx, model, history, message)
	if err != nil {
		return "", fmt.Errorf("chat response: %w", err)
	}
	return text, nil
}

func (g *LLMGateway) Summary(ctx context.Context, content string) (*domain.Summary, error) {
	prompt := fmt.Sprintf(`Analyze the following content and produce a JSON object with exactly these keys:
"text" (a concise summary), "keyPoints" (array of the main points),
"sentiment" (one of "positive", "negative", "neutral"),
"confidence" (number between 0 and 1),
"metadata" (object with "wordCount", "readingTime" in minutes, "topics" array).
Respond with JSON only.

Content:
%s`, content)

	raw, err := g.GenerateText(ctx, domain.TaskSummary, prompt)
	if err != nil {
		return nil, err
	}

	var summary domain.Summary
	if err := decodeJSONBlock(raw, &summary, "text", "keyPoints"); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (g *LLMGateway) Report(ctx context.Context, topic, content string) (string, error) {
	prompt := fmt.Sprintf(`Write a detailed report in Markdown about "%s".
Structure it with a title, an executive summary, numbered sections, and a conclusion.
Base the report on the following material:

%s`, topic, content)
	return g.GenerateText(ctx, domain.TaskReport, prompt)
}

func (g *LLMGateway) Presentation(ctx context.Context, topic, content string) (string, error) {
	prompt := fmt.Sprintf(`Create a presentation outline in Markdown about "%s".
Use "## Slide N: <title>" headings with 3-5 bullet points per slide, 8-12 slides total.
Base the slides on the following material:

%s`, topic, content)
	return g.GenerateText(ctx, domain.TaskPresentation, prompt)
}

// PodcastScript produces a two-host conversation. When the model does not
// return usable JSON, a deterministic apology script is returned instead of
// an error so the caller always has playable segments.
func (g *LLMGateway) PodcastScript(ctx context.Context, title, content string) ([]domain.PodcastSegment, error) {
	prompt := fmt.Sprintf(`Write a podcast script about "%s" as a JSON array of segments.
Each segment has "speaker" ("Host A" or "Host B"), "text", and "duration" (seconds).
Hosts alternate, stay conversational, and cover the key ideas of the material.
Respond with JSON only.

Material:
%s`, title, content)

	raw, err := g.GenerateText(ctx, domain.TaskCreative, prompt)
	if err != nil {
		return fallbackPodcast(title), nil
	}

	var segments []domain.PodcastSegment
	if err := decodeJSONBlock(raw, &segments); err != nil || len(segments) == 0 {
		return fallbackPodcast(title), nil
	}
	return segments, nil
}

func fallbackPodcast(title string) []domain.PodcastSegment {
	return []domain.PodcastSegment{
		{Speaker: "Host A", Text: fmt.Sprintf("Welcome to today's episode about %s.", title), Duration: 5},
		{Speaker: "Host B", Text: "Unfortunately we couldn't prepare the full discussion this time. Please try again in a moment.", Duration: 6},
	}
}

// MindMapData asks for a hierarchical JSON mind map. Callers fall back to
// text heuristics when this returns an error.
func (g *LLMGateway) MindMapData(ctx context.Context, content string) (map[string]any, error) {
	prompt := fmt.Sprintf(`Extract the concept hierarchy of the following content as a JSON object:
{"title": "<central topic>", "children": [{"title": "...", "children": [...]}]}
Up to three levels deep. Respond with JSON only.

Content:
%s`, truncateForPrompt(content, 8000))

	raw, err := g.GenerateText(ctx, domain.TaskMindMap, prompt)
	if err != nil {
		return nil, err
	}

	var tree map[string]any
	if err := decodeJSONBlock(raw, &tree, "title"); err != nil {
		return nil, err
	}
	return tree, nil
}

func truncateForPrompt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit]))
}
