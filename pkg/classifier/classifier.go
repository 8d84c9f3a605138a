// Package classifier derives category, service and content-type labels for
// chunks from their source filename and text.
package classifier

import (
	"slices"
	"strings"
	"time"

	"github.com/xhad/kbprep/internal/models"
	"github.com/xhad/kbprep/pkg/config"
)

// Service types.
const (
	ServiceCosmetic    = "cosmetic"
	ServiceRestorative = "restorative"
	ServiceOralSurgery = "oral-surgery"
	ServiceGeneral     = "general"
)

// Content types.
const (
	ContentFAQ         = "faq"
	ContentPricing     = "pricing"
	ContentProcedure   = "procedure"
	ContentBenefits    = "benefits"
	ContentDescription = "service-description"
)

// passageSkipKeys are chunker metadata keys that must not overwrite ours.
var passageSkipKeys = []string{"source", "page_content"}

var restorativeKeywords = []string{"crown", "filling", "bridge"}

type ClassifierConfig struct {
	Practice config.Practice
	Now      func() time.Time
}

type Classifier struct {
	config    ClassifierConfig
	siteToken string
}

func NewWithConfig(cfg ClassifierConfig) *Classifier {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	// "www.example.com" -> "example"
	token := strings.TrimPrefix(cfg.Practice.Domain, "www.")
	if i := strings.Index(token, "."); i != -1 {
		token = token[:i]
	}
	return &Classifier{config: cfg, siteToken: token}
}

func filenameParts(filename string) []string {
	return strings.Split(strings.ReplaceAll(filename, ".md", ""), "_")
}

// Category takes the segment after "services", else a known top-level
// section, else "general".
func (c *Classifier) Category(filename string) string {
	parts := filenameParts(filename)

	if i := slices.Index(parts, "services"); i != -1 && i+1 < len(parts) {
		return parts[i+1]
	}
	for _, section := range []string{"about", "patient-resources", "contact"} {
		if slices.Contains(parts, section) {
			return section
		}
	}
	return "general"
}

// Service is the last filename segment that is not part of the domain.
func (c *Classifier) Service(filename string) string {
	parts := filenameParts(filename)
	stop := []string{"www", c.siteToken, "com", "", c.config.Practice.Domain}
	for i := len(parts) - 1; i >= 0; i-- {
		if !slices.Contains(stop, parts[i]) {
			return parts[i]
		}
	}
	return "general"
}

func (c *Classifier) ServiceType(category, content string) string {
	lower := strings.ToLower(content)

	switch {
	case strings.Contains(category, "cosmetic"):
		return ServiceCosmetic
	case strings.Contains(category, "restorative") || containsAny(lower, restorativeKeywords):
		return ServiceRestorative
	case strings.Contains(category, "oral-surgery") || strings.Contains(category, "surgery"):
		return ServiceOralSurgery
	default:
		return ServiceGeneral
	}
}

// ContentType applies the rules in order; the first match wins.
func ContentType(text string) string {
	lower := strings.ToLower(text)

	switch {
	case strings.HasPrefix(text, "Q:") || strings.Contains(text, "**") && strings.Contains(prefix(text, 100), "?"):
		return ContentFAQ
	case HasPrice(text):
		return ContentPricing
	case strings.Contains(lower, "what to expect") || strings.Contains(lower, "process") || strings.Contains(lower, "procedure"):
		return ContentProcedure
	case strings.Contains(lower, "benefits") || strings.Contains(lower, "advantages"):
		return ContentBenefits
	default:
		return ContentDescription
	}
}

func HasPrice(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(text, "$") || strings.Contains(lower, "price") || strings.Contains(lower, "cost")
}

func HasFAQ(text string) bool {
	return strings.HasPrefix(text, "Q:")
}

func IsProcedureDetail(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "what to expect") || strings.Contains(lower, "procedure")
}

// SourceURL maps a scraped filename back to its site path.
func (c *Classifier) SourceURL(filename string) string {
	url := strings.ReplaceAll(filename, "_", "/")
	url = strings.ReplaceAll(url, ".md", "")
	return strings.ReplaceAll(url, c.config.Practice.Domain+"/", "")
}

// Metadata builds the full metadata map for a generic content chunk.
// original is the uncleaned file content.
func (c *Classifier) Metadata(text, filename, original string, passageMeta map[string]any) map[string]any {
	category := c.Category(filename)
	p := c.config.Practice

	meta := map[string]any{
		"source":      filename,
		"sourceUrl":   c.SourceURL(filename),
		"uploadedAt":  c.config.Now().Format(time.RFC3339),
		"category":    category,
		"service":     c.Service(filename),
		"serviceType": c.ServiceType(category, original),
		"contentType": ContentType(text),

		"hasPrice":          HasPrice(text),
		"hasFAQ":            HasFAQ(text),
		"isProcedureDetail": IsProcedureDetail(text),

		"practice":        p.Name,
		"practiceAddress": p.Address,
		"practicePhone":   p.Phone,
		"doctors":         slices.Clone(p.Doctors),

		"fileType": "md",
	}

	for k, v := range passageMeta {
		if slices.Contains(passageSkipKeys, k) {
			continue
		}
		meta[k] = v
	}
	return meta
}

// Complete fills the required classification keys an extractor left out.
// Keys already present are kept. filename may be empty for run-level
// chunks, in which case general labels are used.
func (c *Classifier) Complete(meta map[string]any, text, filename, original string) {
	category := "general"
	service := "general"
	if filename != "" {
		category = c.Category(filename)
		service = c.Service(filename)
	}
	if v, ok := meta[models.KeyCategory].(string); ok {
		category = v
	}

	setDefault(meta, models.KeyCategory, category)
	setDefault(meta, models.KeyService, service)
	setDefault(meta, models.KeyServiceType, c.ServiceType(category, original))
	setDefault(meta, models.KeyContentType, ContentType(text))
}

func setDefault(meta map[string]any, key string, value any) {
	if _, ok := meta[key]; !ok {
		meta[key] = value
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
