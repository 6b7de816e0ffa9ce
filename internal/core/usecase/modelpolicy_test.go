package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

func TestSelectModelByTask(t *testing.T) {
	policy := DefaultModelPolicy()

	cases := []struct {
		task domain.TaskType
		want string
	}{
		{domain.TaskChat, defaultFastModel},
		{domain.TaskReasoning, defaultReasoningModel},
		{domain.TaskTechnical, defaultReasoningModel},
		{domain.TaskCreative, defaultFastModel},
		{domain.TaskReport, defaultReasoningModel},
	}
	for _, tc := range cases {
		if got := policy.SelectModel(tc.task, "plain message"); got != tc.want {
			t.Fatalf("SelectModel(%s) = %s, want %s", tc.task, got, tc.want)
		}
	}
}

func TestSelectModelKeywordBias(t *testing.T) {
	policy := DefaultModelPolicy()

	if got := policy.SelectModel(domain.TaskChat, "review this code for me"); got != defaultReasoningModel {
		t.Fatalf("code keyword should promote to technical tier, got %s", got)
	}
	if got := policy.SelectModel(domain.TaskChat, "write a creative story"); got != defaultFastModel {
		t.Fatalf("creative keyword should stay on fast tier, got %s", got)
	}
	// Bias applies to chat only; explicit tasks keep their tier.
	if got := policy.SelectModel(domain.TaskSummary, "summarize this code"); got != defaultFastModel {
		t.Fatalf("explicit task must not be rebias, got %s", got)
	}
}

func TestSelectModelDeterministic(t *testing.T) {
	policy := DefaultModelPolicy()
	first := policy.SelectModel(domain.TaskChat, "same message")
	for i := 0; i < 10; i++ {
		if got := policy.SelectModel(domain.TaskChat, "same message"); got != first {
			t.Fatalf("selection not deterministic: %s vs %s", got, first)
		}
	}
}

func TestLoadModelPolicyOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	data := "models:\n  chat: custom-flash\n  reasoning: \"\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write policy file: %v", err)
	}

	policy, err := LoadModelPolicy(path)
	if err != nil {
		t.Fatalf("LoadModelPolicy() error = %v", err)
	}
	if got := policy.SelectModel(domain.TaskChat, "hi"); got != "custom-flash" {
		t.Fatalf("override not applied, got %s", got)
	}
	if got := policy.SelectModel(domain.TaskReasoning, "hi"); got != defaultReasoningModel {
		t.Fatalf("empty override must keep default, got %s", got)
	}
}

func TestLoadModelPolicyMissingFile(t *testing.T) {
	policy, err := LoadModelPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if got := policy.SelectModel(domain.TaskChat, "hi"); got != defaultFastModel {
		t.Fatalf("expected defaults, got %s", got)
	}
}
