package domain

// TaskType tags a generation request for model selection. The policy table
// mapping task types to model ids is immutable configuration, read-only at
// request time.
type TaskType string

const (
	TaskChat         TaskType = "chat"
	TaskReasoning    TaskType = "reasoning"
	TaskTechnical    TaskType = "technical"
	TaskCreative     TaskType = "creative"
	TaskMindMap      TaskType = "mindmap"
	TaskSummary      TaskType = "summary"
	TaskReport       TaskType = "report"
	TaskPresentation TaskType = "presentation"
)

type SummaryMetadata struct {
	WordCount   int      `json:"wordCount"`
	ReadingTime int      `json:"readingTime"`
	Topics      []string `json:"topics"`
}

type Summary struct {
	Text       string          `json:"text"`
	KeyPoints  []string        `json:"keyPoints"`
	Sentiment  string          `json:"sentiment"`
	Confidence float64         `json:"confidence"`
	Metadata   SummaryMetadata `json:"metadata"`
}

type PodcastSegment struct {
	Speaker  string `json:"speaker"`
	Text     string `json:"text"`
	Duration int    `json:"duration"`
	Focus    string `json:"focus,omitempty"`
}
