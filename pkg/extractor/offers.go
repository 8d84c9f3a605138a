package extractor

import (
	"fmt"
	"strings"

	"github.com/xhad/kbprep/internal/models"
)

// OfferText renders the new patient special template.
func (e *Extractor) OfferText() string {
	p, o := e.config.Practice, e.config.Offer

	var b strings.Builder
	fmt.Fprintf(&b, "%s - New Patient Special\n\n", p.Name)
	fmt.Fprintf(&b, "For uninsured patients: Initial visit for only %s\n\n", o.Price)
	b.WriteString("This special includes:\n")
	for _, item := range o.Includes {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	fmt.Fprintf(&b, "\nNote: %s\n\n", o.Note)
	fmt.Fprintf(&b, "Call %s to schedule your appointment and take advantage of this special offer.\n", p.Phone)
	fmt.Fprintf(&b, "Located at %s", p.Address)
	return b.String()
}

// OfferEligible reports whether filename may carry the special offer.
func (e *Extractor) OfferEligible(filename string) bool {
	return strings.Contains(filename, e.config.Offer.FilenameMarker)
}

// SpecialOffer returns the offer chunk when content mentions any trigger.
// The text is the configured template; nothing is taken from content.
func (e *Extractor) SpecialOffer(content string) (models.Chunk, bool) {
	found := false
	for _, trigger := range e.config.Offer.Triggers {
		if strings.Contains(content, trigger) {
			found = true
			break
		}
	}
	if !found {
		return models.Chunk{}, false
	}

	meta := map[string]any{
		"contentType":   "pricing",
		"hasPrice":      true,
		"category":      "special-offers",
		"priority":      "high",
		"practice":      e.config.Practice.Name,
		"practicePhone": e.config.Practice.Phone,
	}
	return newChunk(e.OfferText(), meta), true
}
