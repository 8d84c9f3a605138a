package types

import (
	"context"

	"github.com/xhad/kbprep/internal/models"
)

// Core interfaces
type Chunker interface {
	Process(ctx context.Context, filename, text string) ([]models.Passage, error)
}

type DocumentSource interface {
	List() ([]string, error)
	Read(path string) (models.RawDocument, error)
}

type TokenCounter interface {
	CountTokens(text string) int
}
