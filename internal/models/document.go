package models

// RawDocument is a knowledge-base file as read from disk.
type RawDocument struct {
	Name    string
	Path    string
	Content string
}

// Chunk is the unit written to processed-chunks.json.
type Chunk struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// Passage is a piece of cleaned text returned by the chunker.
type Passage struct {
	Content  string
	Metadata map[string]any
}

// Required metadata keys on every chunk.
const (
	KeyCategory    = "category"
	KeyService     = "service"
	KeyServiceType = "serviceType"
	KeyContentType = "contentType"
)

var RequiredKeys = []string{KeyCategory, KeyService, KeyServiceType, KeyContentType}
