package domain

import "time"

type FileStatus string

const (
	FileStatusUploaded   FileStatus = "uploaded"
	FileStatusProcessing FileStatus = "processing"
	FileStatusReady      FileStatus = "ready"
	FileStatusFailed     FileStatus = "failed"
)

type File struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Filename    string     `json:"filename"`
	MimeType    string     `json:"mime_type"`
	StoragePath string     `json:"storage_path"`
	Status      FileStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	ChunkCount  int        `json:"chunk_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IngestMeta carries the ownership tags attached to every chunk produced
// from a file.
type IngestMeta struct {
	OwnerID      string
	FileID       string
	OriginalName string
	MimeType     string
}
