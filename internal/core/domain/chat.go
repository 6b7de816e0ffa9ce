package domain

type SearchType string

const (
	SearchTypeStandard           SearchType = "standard"
	SearchTypeRAG                SearchType = "rag"
	SearchTypeRAGError           SearchType = "rag_error"
	SearchTypeRAGFallback        SearchType = "rag_fallback"
	SearchTypeDeepSearch         SearchType = "deep_search"
	SearchTypeDeepSearchFallback SearchType = "deep_search_fallback"
	SearchTypeAgentic            SearchType = "agentic"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Source identifies where an answer's supporting material came from.
// Document sources are deduplicated by display name.
type Source struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

type ChatResult struct {
	Message    string           `json:"message"`
	SearchType SearchType       `json:"search_type"`
	Sources    []Source         `json:"sources"`
	SubQueries []SubQueryResult `json:"sub_queries,omitempty"`
	ToolCalls  []ToolCall       `json:"tool_calls,omitempty"`
}
