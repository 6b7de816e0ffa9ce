package domain

// Chunk is a bounded fragment of a source document's text. Immutable once
// created; destroyed in bulk when the owning file is deleted.
type Chunk struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	ChunkID  string `json:"chunk_id"`
	Sequence int    `json:"sequence"`
	OwnerID  string `json:"owner_id"`
	FileID   string `json:"file_id"`
}

// SearchFilter restricts retrieval to an owner and optionally one file.
// Filters are applied before ranking, never after truncation.
type SearchFilter struct {
	OwnerID string
	FileID  string
}

// RetrievedChunk is produced fresh per query by the vector index, ordered
// by descending similarity score.
type RetrievedChunk struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	ChunkID string  `json:"chunk_id"`
	OwnerID string  `json:"owner_id"`
	FileID  string  `json:"file_id"`
	Score   float64 `json:"score"`
}
