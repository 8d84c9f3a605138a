// Package extractor pulls fixed-format facts (business hours, FAQ pairs,
// special offers) out of cleaned markdown into standalone chunks.
package extractor

import (
	"github.com/xhad/kbprep/internal/models"
	"github.com/xhad/kbprep/pkg/config"
)

type ExtractorConfig struct {
	Practice        config.Practice
	Offer           config.Offer
	HoursSignatures []string
}

type Extractor struct {
	config ExtractorConfig
}

func NewWithConfig(cfg ExtractorConfig) *Extractor {
	if len(cfg.HoursSignatures) == 0 {
		cfg.HoursSignatures = []string{"| Day | Hours |"}
	}
	return &Extractor{config: cfg}
}

// HoursMarker is the table header that gates the business hours chunk.
func (e *Extractor) HoursMarker() string {
	return e.config.HoursSignatures[0]
}

func (e *Extractor) practiceFields(meta map[string]any) map[string]any {
	meta["practice"] = e.config.Practice.Name
	meta["practiceAddress"] = e.config.Practice.Address
	meta["practicePhone"] = e.config.Practice.Phone
	return meta
}

func newChunk(text string, meta map[string]any) models.Chunk {
	return models.Chunk{Text: text, Metadata: meta}
}
