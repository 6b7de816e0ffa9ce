package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

var planStepRe = regexp.MustCompile(`(\w+)\((.*)\)`)

// Agent plans a sequence of tool calls with the reasoning tier, executes
// them in order, and synthesizes a final answer from the accumulated
// results. A failed step is folded into the running context rather than
// aborting the run.
func (uc *ChatUseCase) Agent(
	ctx context.Context,
	userID, message string,
) (*domain.ChatResult, error) {
	if message == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "agent chat", fmt.Errorf("empty message"))
	}

	plan, err := uc.plan(ctx, message)
	if err != nil {
		return nil, err
	}

	answer, toolCalls := uc.executePlan(ctx, userID, plan)

	final, err := uc.synthesizeAnswer(ctx, message, answer)
	if err != nil {
		return nil, err
	}

	return &domain.ChatResult{
		Message:    final,
		SearchType: domain.SearchTypeAgentic,
		ToolCalls:  toolCalls,
	}, nil
}

func (uc *ChatUseCase) plan(ctx context.Context, message string) (domain.Plan, error) {
	prompt := fmt.Sprintf(`You are a task planner. Decompose the user's request into an ordered list of tool calls, one per line, in the form tool_name(arg1, arg2).

Available tools:
- web_search(query): search the web
- file_search(query, userId): search the user's indexed documents
- read_file(fileId, userId): read the full text of one of the user's files
- summarize(text): summarize a piece of text
- generate_report(topic, content): write a detailed report

Use the literal token userId where the caller's id is needed, and $RESULT to pass the output of previous steps. Output only the tool call lines.

Request: %s`, message)

	raw, err := uc.gateway.GenerateText(ctx, domain.TaskReasoning, prompt)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("plan agent steps: %w", err)
	}
	return parsePlan(raw, uc.cfg.MaxAgentSteps), nil
}

func parsePlan(raw string, maxSteps int) domain.Plan {
	var plan domain.Plan
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		match := planStepRe.FindStringSubmatch(line)
		if match == nil {
			plan.Unparsed = append(plan.Unparsed, line)
			continue
		}
		if len(plan.Steps) == maxSteps {
			plan.Unparsed = append(plan.Unparsed, line)
			continue
		}
		plan.Steps = append(plan.Steps, domain.PlanStep{
			Tool: match[1],
			Args: splitArgs(match[2]),
		})
	}
	return plan
}

func splitArgs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	args := make([]string, 0, len(parts))
	for _, part := range parts {
		args = append(args, strings.Trim(strings.TrimSpace(part), `"'`))
	}
	return args
}

func (uc *ChatUseCase) executePlan(ctx context.Context, userID string, plan domain.Plan) (string, []domain.ToolCall) {
	var answer strings.Builder
	toolCalls := make([]domain.ToolCall, 0, len(plan.Steps))
	for i, step := range plan.Steps {
		args := resolveArgs(step.Args, userID, answer.String())

		result, err := uc.runTool(ctx, step.Tool, args)
		toolCalls = append(toolCalls, domain.ToolCall{Tool: step.Tool, Success: err == nil})
		if err != nil {
			fmt.Fprintf(&answer, "Step %d (%s) failed: %v\n", i+1, step.Tool, err)
			continue
		}
		fmt.Fprintf(&answer, "Step %d (%s):\n%s\n", i+1, step.Tool, result)
	}
	return answer.String(), toolCalls
}

// resolveArgs substitutes the caller's id for the userId token and the
// accumulated answer for $-prefixed placeholders.
func resolveArgs(args []string, userID, accumulated string) []string {
	resolved := make([]string, len(args))
	for i, arg := range args {
		switch {
		case arg == "userId":
			resolved[i] = userID
		case strings.HasPrefix(arg, "$"):
			resolved[i] = accumulated
		default:
			resolved[i] = arg
		}
	}
	return resolved
}

func (uc *ChatUseCase) synthesizeAnswer(ctx context.Context, message, results string) (string, error) {
	if strings.TrimSpace(results) == "" {
		results = "No tool produced any output."
	}
	prompt := fmt.Sprintf(`Based on the following plan execution results, write the final answer to the user's request. Be direct and do not mention the tools.

Request: %s

Execution results:
%s`, message, results)

	final, err := uc.gateway.GenerateText(ctx, domain.TaskReasoning, prompt)
	if err != nil {
		return "", fmt.Errorf("synthesize agent answer: %w", err)
	}
	return final, nil
}
