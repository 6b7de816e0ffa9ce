package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestSummaryDecodesStructured(t *testing.T) {
	gen := &chatGenFake{responses: []string{
		"```json\n{\"text\": \"the gist\", \"keyPoints\": [\"a\", \"b\"], \"sentiment\": \"positive\", \"confidence\": 0.9, \"metadata\": {\"wordCount\": 120, \"readingTime\": 1, \"topics\": [\"go\"]}}\n```",
	}}
	gateway := NewLLMGateway(gen, DefaultModelPolicy())

	summary, err := gateway.Summary(context.Background(), "long content")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Text != "the gist" || len(summary.KeyPoints) != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Metadata.WordCount != 120 {
		t.Fatalf("metadata lost: %+v", summary.Metadata)
	}
}

func TestSummaryRejectsUnstructuredReply(t *testing.T) {
	gateway := NewLLMGateway(&chatGenFake{responses: []string{"just prose"}}, DefaultModelPolicy())
	if _, err := gateway.Summary(context.Background(), "content"); err == nil {
		t.Fatalf("expected error for unstructured reply")
	}
}

func TestPodcastScriptFallsBackOnBadJSON(t *testing.T) {
	gateway := NewLLMGateway(&chatGenFake{responses: []string{"no json here"}}, DefaultModelPolicy())

	segments, err := gateway.PodcastScript(context.Background(), "Go Internals", "content")
	if err != nil {
		t.Fatalf("PodcastScript() error = %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected apology script, got %d segments", len(segments))
	}
	if segments[0].Speaker != "Host A" {
		t.Fatalf("unexpected fallback speaker %q", segments[0].Speaker)
	}
}

func TestPodcastScriptFallsBackOnProviderError(t *testing.T) {
	gen := &chatGenFake{errs: map[int]error{0: errors.New("provider down")}}
	gateway := NewLLMGateway(gen, DefaultModelPolicy())

	segments, err := gateway.PodcastScript(context.Background(), "Topic", "content")
	if err != nil {
		t.Fatalf("PodcastScript() error = %v", err)
	}
	if len(segments) == 0 {
		t.Fatalf("expected fallback segments")
	}
}

func TestPodcastScriptParsesSegments(t *testing.T) {
	gen := &chatGenFake{responses: []string{
		`[{"speaker": "Host A", "text": "welcome", "duration": 5}, {"speaker": "Host B", "text": "glad to be here", "duration": 4}]`,
	}}
	gateway := NewLLMGateway(gen, DefaultModelPolicy())

	segments, err := gateway.PodcastScript(context.Background(), "Topic", "content")
	if err != nil {
		t.Fatalf("PodcastScript() error = %v", err)
	}
	if len(segments) != 2 || segments[1].Speaker != "Host B" {
		t.Fatalf("unexpected segments %+v", segments)
	}
}

func TestMindMapDataRequiresTitle(t *testing.T) {
	gateway := NewLLMGateway(&chatGenFake{responses: []string{`{"children": []}`}}, DefaultModelPolicy())
	if _, err := gateway.MindMapData(context.Background(), "content"); err == nil {
		t.Fatalf("expected error for missing title")
	}
}
