// Package analyzer computes size, distribution and quality statistics over a
// processed chunks file.
package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/xhad/kbprep/internal/models"
)

var ErrNoChunks = errors.New("no chunks to analyze")

const unknown = "unknown"

// Recommendation thresholds.
const (
	maxShortChunks      = 5
	maxLongChunks       = 5
	maxDuplicates       = 10
	minServiceShare     = 0.3
	minFAQChunks        = 20
	charsPerTokenApprox = 4
)

type Options struct {
	ShortChars        int
	LongChars         int
	DuplicatePrefix   int
	PricePer1KTokens  float64
	StorageKBPerChunk float64
	TopSources        int

	// SiteDomain is trimmed from source names when printing.
	SiteDomain string

	EmbeddingModel      string
	EmbeddingDimensions int
}

// Count is one row of a frequency table.
type Count struct {
	Value string
	Count int
}

type Level int

const (
	LevelOK Level = iota
	LevelInfo
	LevelWarning
)

type Recommendation struct {
	Level   Level
	Message string
	Actions []string
}

type Report struct {
	Total       int
	AvgLength   float64
	MinLength   int
	MaxLength   int
	TotalLength int

	ContentTypes []Count
	Categories   []Count
	ServiceTypes []Count
	Sources      []Count

	PriceChunks     int
	FAQChunks       int
	ProcedureChunks int

	Duplicates      int
	ShortChunks     int
	LongChunks      int
	MissingMetadata int
	FilesProcessed  int

	Recommendations []Recommendation

	EstimatedTokens float64
	EmbeddingCost   float64
	StorageMB       float64

	options Options
	chunks  []models.Chunk
}

// Analyze builds a report over chunks. It returns ErrNoChunks for empty
// input.
func Analyze(chunks []models.Chunk, opts Options) (*Report, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	if opts.ShortChars <= 0 || opts.LongChars <= 0 || opts.DuplicatePrefix <= 0 {
		return nil, fmt.Errorf("invalid analyzer thresholds: short=%d long=%d prefix=%d",
			opts.ShortChars, opts.LongChars, opts.DuplicatePrefix)
	}

	r := &Report{Total: len(chunks), options: opts, chunks: chunks}

	r.MinLength = -1
	seen := make(map[string]struct{}, len(chunks))
	files := make(map[string]struct{})

	for _, c := range chunks {
		n := utf8.RuneCountInString(c.Text)
		r.TotalLength += n
		if r.MinLength == -1 || n < r.MinLength {
			r.MinLength = n
		}
		if n > r.MaxLength {
			r.MaxLength = n
		}
		if n < opts.ShortChars {
			r.ShortChunks++
		}
		if n > opts.LongChars {
			r.LongChunks++
		}
		r.EstimatedTokens += float64(n) / charsPerTokenApprox

		if flag(c.Metadata, "hasPrice") {
			r.PriceChunks++
		}
		if flag(c.Metadata, "hasFAQ") {
			r.FAQChunks++
		}
		if flag(c.Metadata, "isProcedureDetail") {
			r.ProcedureChunks++
		}

		// Prefix hashing only approximates duplicate detection.
		h := hashText(prefix(c.Text, opts.DuplicatePrefix))
		if _, ok := seen[h]; ok {
			r.Duplicates++
		} else {
			seen[h] = struct{}{}
		}

		for _, key := range models.RequiredKeys {
			if _, ok := c.Metadata[key]; !ok {
				r.MissingMetadata++
				break
			}
		}

		src, _ := c.Metadata["source"].(string)
		files[src] = struct{}{}
	}

	r.AvgLength = float64(r.TotalLength) / float64(r.Total)
	r.FilesProcessed = len(files)

	r.ContentTypes = frequencies(chunks, models.KeyContentType)
	r.Categories = frequencies(chunks, models.KeyCategory)
	r.ServiceTypes = frequencies(chunks, models.KeyServiceType)
	r.Sources = frequencies(chunks, "source")

	r.EmbeddingCost = r.EstimatedTokens / 1000 * opts.PricePer1KTokens
	r.StorageMB = float64(r.Total) * opts.StorageKBPerChunk / 1024

	r.Recommendations = r.recommend()
	return r, nil
}

// CountOf returns the count for value in a frequency table.
func CountOf(table []Count, value string) int {
	for _, c := range table {
		if c.Value == value {
			return c.Count
		}
	}
	return 0
}

func (r *Report) recommend() []Recommendation {
	var recs []Recommendation

	if r.ShortChunks > maxShortChunks {
		recs = append(recs, Recommendation{
			Level:   LevelWarning,
			Message: fmt.Sprintf("Many short chunks detected (%d)", r.ShortChunks),
			Actions: []string{"Increase chunker.min_tokens"},
		})
	}
	if r.LongChunks > maxLongChunks {
		recs = append(recs, Recommendation{
			Level:   LevelWarning,
			Message: fmt.Sprintf("Many long chunks detected (%d)", r.LongChunks),
			Actions: []string{"Decrease chunker.max_tokens"},
		})
	}
	if r.Duplicates > maxDuplicates {
		recs = append(recs, Recommendation{
			Level:   LevelWarning,
			Message: fmt.Sprintf("Significant duplicates detected (%d)", r.Duplicates),
			Actions: []string{
				"Review content cleaning logic",
				"Ensure navigation and boilerplate are fully removed",
			},
		})
	}

	service := CountOf(r.ContentTypes, "service-description")
	if float64(service) < float64(r.Total)*minServiceShare {
		recs = append(recs, Recommendation{
			Level:   LevelWarning,
			Message: fmt.Sprintf("Low service content ratio (%.1f%%)", models.Percent(service, r.Total)),
			Actions: []string{"Review if enough service information is captured"},
		})
	}

	faq := CountOf(r.ContentTypes, "faq")
	if faq < minFAQChunks {
		recs = append(recs, Recommendation{
			Level:   LevelInfo,
			Message: fmt.Sprintf("Few FAQ chunks (%d)", faq),
			Actions: []string{"Consider adding more FAQ content to the knowledge base"},
		})
	}

	if r.ShortChunks <= maxShortChunks && r.LongChunks <= maxLongChunks && r.Duplicates <= maxDuplicates {
		recs = append(recs, Recommendation{
			Level:   LevelOK,
			Message: "Chunk quality looks excellent!",
			Actions: []string{
				"Content is well-balanced and optimized",
				"Ready for embedding and upload",
			},
		})
	}
	return recs
}

// frequencies counts metadata[key] across chunks, most common first. Ties
// keep first-seen order.
func frequencies(chunks []models.Chunk, key string) []Count {
	index := make(map[string]int)
	var table []Count

	for _, c := range chunks {
		value := unknown
		if v, ok := c.Metadata[key]; ok && v != nil {
			if s, ok := v.(string); ok {
				value = s
			} else {
				value = fmt.Sprint(v)
			}
		}

		if i, ok := index[value]; ok {
			table[i].Count++
			continue
		}
		index[value] = len(table)
		table = append(table, Count{Value: value, Count: 1})
	}

	slices.SortStableFunc(table, func(a, b Count) int {
		return b.Count - a.Count
	})
	return table
}

func flag(meta map[string]any, key string) bool {
	v, _ := meta[key].(bool)
	return v
}

func hashText(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:16])
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
