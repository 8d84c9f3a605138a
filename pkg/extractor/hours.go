package extractor

import (
	"fmt"
	"strings"

	"github.com/xhad/kbprep/internal/models"
)

// HoursText renders the business hours template for the practice.
func (e *Extractor) HoursText() string {
	p := e.config.Practice
	return fmt.Sprintf("%s Business Hours:\n\n%s\n\nLocated at %s\nCall %s to schedule an appointment.",
		p.Name, strings.Join(p.Hours, "\n"), p.Address, p.Phone)
}

// BusinessHours returns the hours chunk when content holds the hours table
// header. The text comes from the practice profile, not from the table.
func (e *Extractor) BusinessHours(content string) (models.Chunk, bool) {
	if !strings.Contains(content, e.HoursMarker()) {
		return models.Chunk{}, false
	}

	meta := e.practiceFields(map[string]any{
		"contentType": "business-hours",
		"category":    "scheduling",
		"priority":    "high",
		"service":     "general-information",
	})
	return newChunk(e.HoursText(), meta), true
}
