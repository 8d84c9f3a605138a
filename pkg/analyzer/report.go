package analyzer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/xhad/kbprep/internal/models"
)

const (
	ruleWidth     = 70
	previewChars  = 200
	sourceNameMax = 40
)

// Summary is the condensed report written next to the chunks file.
type Summary struct {
	TotalChunks    int            `json:"total_chunks"`
	ContentTypes   map[string]int `json:"content_types"`
	Categories     map[string]int `json:"categories"`
	ServiceTypes   map[string]int `json:"service_types"`
	AvgLength      float64        `json:"avg_length"`
	FilesProcessed int            `json:"files_processed"`
}

func (r *Report) Summary() Summary {
	return Summary{
		TotalChunks:    r.Total,
		ContentTypes:   toMap(r.ContentTypes),
		Categories:     toMap(r.Categories),
		ServiceTypes:   toMap(r.ServiceTypes),
		AvgLength:      r.AvgLength,
		FilesProcessed: r.FilesProcessed,
	}
}

func toMap(table []Count) map[string]int {
	m := make(map[string]int, len(table))
	for _, c := range table {
		m[c.Value] = c.Count
	}
	return m
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	warn    = color.New(color.FgYellow)
	info    = color.New(color.FgBlue)
	good    = color.New(color.FgGreen)
)

func rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}

func section(w io.Writer, title string) {
	heading.Fprintf(w, "%s:\n", title)
}

// Print writes the full console report to w.
func (r *Report) Print(w io.Writer) {
	rule(w)
	heading.Fprintln(w, "  Chunk Analysis Report")
	rule(w)
	fmt.Fprintln(w)

	section(w, "Overall Statistics")
	fmt.Fprintf(w, "   Total chunks: %d\n\n", r.Total)

	section(w, "Chunk Size Analysis")
	fmt.Fprintf(w, "   Average length: %.0f characters (~%.0f tokens)\n", r.AvgLength, r.AvgLength/charsPerTokenApprox)
	fmt.Fprintf(w, "   Minimum length: %d characters\n", r.MinLength)
	fmt.Fprintf(w, "   Maximum length: %d characters\n", r.MaxLength)
	fmt.Fprintf(w, "   Total characters: %d\n\n", r.TotalLength)

	r.printDistribution(w, "Content Type Distribution", r.ContentTypes, 20)
	r.printDistribution(w, "Category Distribution", r.Categories, 25)
	r.printDistribution(w, "Service Type Distribution", r.ServiceTypes, 15)

	section(w, fmt.Sprintf("Chunks per Source File (Top %d)", r.options.TopSources))
	for i, c := range r.Sources {
		if r.options.TopSources > 0 && i >= r.options.TopSources {
			break
		}
		fmt.Fprintf(w, "   %-40s %2d chunks\n", r.shortSource(c.Value), c.Count)
	}
	fmt.Fprintln(w)

	section(w, "Content Flags")
	fmt.Fprintf(w, "   Has pricing info: %d chunks (%.1f%%)\n", r.PriceChunks, models.Percent(r.PriceChunks, r.Total))
	fmt.Fprintf(w, "   Is FAQ: %d chunks (%.1f%%)\n", r.FAQChunks, models.Percent(r.FAQChunks, r.Total))
	fmt.Fprintf(w, "   Is procedure detail: %d chunks (%.1f%%)\n\n", r.ProcedureChunks, models.Percent(r.ProcedureChunks, r.Total))

	section(w, "Duplicate Analysis")
	fmt.Fprintf(w, "   Potential duplicates: %d chunks\n", r.Duplicates)
	if r.Duplicates > 0 {
		warn.Fprintln(w, "   ! Consider reviewing for duplicate content")
	} else {
		good.Fprintln(w, "   ✓ No significant duplicates detected")
	}
	fmt.Fprintln(w)

	section(w, "Quality Checks")
	if r.ShortChunks > 0 {
		warn.Fprintf(w, "   ! %d chunks < %d characters (may be low quality)\n", r.ShortChunks, r.options.ShortChars)
	} else {
		good.Fprintln(w, "   ✓ No very short chunks")
	}
	if r.LongChunks > 0 {
		warn.Fprintf(w, "   ! %d chunks > %d characters (may need splitting)\n", r.LongChunks, r.options.LongChars)
	} else {
		good.Fprintln(w, "   ✓ No excessively long chunks")
	}
	if r.MissingMetadata > 0 {
		warn.Fprintf(w, "   ! %d chunks missing required metadata\n", r.MissingMetadata)
	} else {
		good.Fprintln(w, "   ✓ All chunks have complete metadata")
	}
	fmt.Fprintln(w)

	rule(w)
	heading.Fprintln(w, "Optimization Recommendations:")
	rule(w)
	fmt.Fprintln(w)
	for _, rec := range r.Recommendations {
		printer, mark := good, "✓"
		switch rec.Level {
		case LevelWarning:
			printer, mark = warn, "!"
		case LevelInfo:
			printer, mark = info, "i"
		}
		printer.Fprintf(w, "%s %s\n", mark, rec.Message)
		for _, action := range rec.Actions {
			fmt.Fprintf(w, "   -> %s\n", action)
		}
		fmt.Fprintln(w)
	}

	section(w, "Cost Estimation")
	fmt.Fprintf(w, "   Estimated tokens: %.0f\n", r.EstimatedTokens)
	fmt.Fprintf(w, "   Embedding cost: $%.4f (one-time)\n", r.EmbeddingCost)
	if r.options.EmbeddingModel != "" {
		fmt.Fprintf(w, "   Embedding model: %s (%d dimensions)\n", r.options.EmbeddingModel, r.options.EmbeddingDimensions)
	}
	fmt.Fprintf(w, "   Storage: ~%.2f MB in the vector index\n\n", r.StorageMB)

	rule(w)
	heading.Fprintln(w, "Summary:")
	rule(w)
	fmt.Fprintf(w, "   %d total chunks ready for embedding\n", r.Total)
	fmt.Fprintf(w, "   %d service types covered\n", len(r.ServiceTypes))
	fmt.Fprintf(w, "   %d content types identified\n", len(r.ContentTypes))
	fmt.Fprintf(w, "   Average chunk size: %.0f characters\n\n", r.AvgLength)
}

func (r *Report) printDistribution(w io.Writer, title string, table []Count, width int) {
	section(w, title)
	for _, c := range table {
		fmt.Fprintf(w, "   %-*s %3d chunks (%5.1f%%)\n", width, c.Value, c.Count, models.Percent(c.Count, r.Total))
	}
	fmt.Fprintln(w)
}

func (r *Report) shortSource(source string) string {
	name := source
	if r.options.SiteDomain != "" {
		name = strings.ReplaceAll(name, r.options.SiteDomain+"_", "")
	}
	name = strings.ReplaceAll(name, ".md", "")
	return prefix(name, sourceNameMax)
}

// PrintSamples writes the first n chunks with their labels and a preview.
func (r *Report) PrintSamples(w io.Writer, n int) {
	n = max(0, min(n, len(r.chunks)))

	rule(w)
	heading.Fprintf(w, "  Sample Chunks (First %d)\n", n)
	rule(w)
	fmt.Fprintln(w)

	for i, c := range r.chunks[:n] {
		fmt.Fprintf(w, "Chunk #%d\n", i+1)
		fmt.Fprintf(w, "Category: %s\n", label(c.Metadata, models.KeyCategory))
		fmt.Fprintf(w, "Service: %s\n", label(c.Metadata, models.KeyService))
		fmt.Fprintf(w, "Content Type: %s\n", label(c.Metadata, models.KeyContentType))
		fmt.Fprintf(w, "Length: %d characters\n", utf8.RuneCountInString(c.Text))
		fmt.Fprintf(w, "Preview: %s...\n", prefix(c.Text, previewChars))
		fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
		fmt.Fprintln(w)
	}
}

func label(meta map[string]any, key string) string {
	if v, ok := meta[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return "N/A"
}
