package usecase

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

// ModelPolicy maps task types to concrete model ids. Selection is
// deterministic: same task type and message always resolve to the same
// model.
type ModelPolicy struct {
	models map[domain.TaskType]string
}

const (
	defaultFastModel      = "gemini-1.5-flash"
	defaultReasoningModel = "gemini-1.5-pro"
)

func DefaultModelPolicy() *ModelPolicy {
	return &ModelPolicy{models: map[domain.TaskType]string{
		domain.TaskChat:         defaultFastModel,
		domain.TaskReasoning:    defaultReasoningModel,
		domain.TaskTechnical:    defaultReasoningModel,
		domain.TaskCreative:     defaultFastModel,
		domain.TaskMindMap:      defaultFastModel,
		domain.TaskSummary:      defaultFastModel,
		domain.TaskReport:       defaultReasoningModel,
		domain.TaskPresentation: defaultReasoningModel,
	}}
}

// LoadModelPolicy reads task-to-model overrides from a YAML file and merges
// them over the defaults. A missing path returns the defaults unchanged.
func LoadModelPolicy(path string) (*ModelPolicy, error) {
	policy := DefaultModelPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return policy, nil
		}
		return nil, fmt.Errorf("read model policy: %w", err)
	}

	var file struct {
		Models map[string]string `yaml:"models"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse model policy: %w", err)
	}

	for task, model := range file.Models {
		if model == "" {
			continue
		}
		policy.models[domain.TaskType(task)] = model
	}
	return policy, nil
}

// SelectModel resolves the model for a task. Message keywords can promote a
// generic chat task to the technical or creative tier before lookup.
func (p *ModelPolicy) SelectModel(task domain.TaskType, message string) string {
	task = biasTask(task, message)
	if model, ok := p.models[task]; ok {
		return model
	}
	return p.models[domain.TaskChat]
}

func biasTask(task domain.TaskType, message string) domain.TaskType {
	if task != domain.TaskChat {
		return task
	}
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "code"), strings.Contains(lower, "technical"):
		return domain.TaskTechnical
	case strings.Contains(lower, "creative"), strings.Contains(lower, "story"):
		return domain.TaskCreative
	default:
		return task
	}
}
