package domain

// PlanStep is one parsed tool invocation from the planner's free-text
// output. Steps naming an unregistered tool are skipped at execution time.
type PlanStep struct {
	Tool string   `json:"tool"`
	Args []string `json:"args"`
}

// Plan keeps the unparsed lines alongside the parsed steps so callers can
// observe plan truncation instead of losing it silently.
type Plan struct {
	Steps    []PlanStep `json:"steps"`
	Unparsed []string   `json:"unparsed"`
}

// ToolCall records one executed plan step's outcome, folded-in failures
// included.
type ToolCall struct {
	Tool    string `json:"tool"`
	Success bool   `json:"success"`
}
