package domain

// WebResult is one hit returned by the external web-search collaborator.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// WebSearchResponse is the raw collaborator reply, including its
// rate-limit signal.
type WebSearchResponse struct {
	Results     []WebResult `json:"results"`
	RateLimited bool        `json:"rate_limited"`
	Error       string      `json:"error,omitempty"`
}

// Decomposition is the planner output of the deep-search pipeline.
type Decomposition struct {
	CoreQuestion  string   `json:"coreQuestion"`
	SearchQueries []string `json:"searchQueries"`
}

// SubQueryResult records the outcome of one sub-query independently, so a
// failed sub-query never aborts the remaining ones.
type SubQueryResult struct {
	Query       string      `json:"query"`
	Results     []WebResult `json:"results"`
	Success     bool        `json:"success"`
	Error       string      `json:"error,omitempty"`
	RateLimited bool        `json:"rate_limited,omitempty"`
}

type SearchReport struct {
	Summary     string           `json:"summary"`
	Sources     []string         `json:"sources"`
	SubQueries  []SubQueryResult `json:"sub_queries"`
	AIGenerated bool             `json:"ai_generated"`
	Confidence  float64          `json:"confidence"`
}
