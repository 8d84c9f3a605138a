// Package cleaner removes scraped-site boilerplate from markdown before it
// is chunked.
package cleaner

import (
	"strings"

	"github.com/xhad/kbprep/internal/models"
)

// frontMatterLines is how many leading lines are checked for front matter.
const frontMatterLines = 5

var (
	frontMatterKeys     = []string{"url:", "title:"}
	frontMatterPrefixes = append([]string{"---"}, frontMatterKeys...)
)

type CleanerConfig struct {
	SkipPatterns     []string
	ReviewerHeadings []string
	HoursSignatures  []string
	FootnotePrefixes []string
}

type Cleaner struct {
	config CleanerConfig
}

func NewWithConfig(config CleanerConfig) *Cleaner {
	return &Cleaner{config: config}
}

// lineState is the state carried from one line to the next.
type lineState struct {
	frontMatterEnd    int
	inNavigation      bool
	inDuplicateReview bool
	seenReviews       bool
	seenHours         bool
	inKeptHours       bool
	inDuplicateHours  bool
}

// Clean drops boilerplate lines from content and adds the line counts to
// stats. The filename is accepted for per-file rules but not used yet.
func (c *Cleaner) Clean(content, filename string, stats *models.Stats) string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	removed := 0

	st := lineState{frontMatterEnd: frontMatterEnd(lines)}
	for i, line := range lines {
		if c.skipLine(i, line, &st) {
			removed++
			continue
		}
		cleaned = append(cleaned, line)
	}

	if stats != nil {
		stats.OriginalLines += len(lines)
		stats.CleanedLines += len(cleaned)
		stats.RemovedLines += removed
	}

	return strings.Join(trimBlank(cleaned), "\n")
}

// frontMatterEnd returns the index of the closing "---" of a front matter
// block that opens on the first line, or -1. The block must close within
// the first frontMatterLines lines and carry a url: or title: key.
func frontMatterEnd(lines []string) int {
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "---") {
		return -1
	}
	hasKey := false
	for i := 1; i < len(lines) && i < frontMatterLines; i++ {
		if strings.HasPrefix(lines[i], "---") {
			if hasKey {
				return i
			}
			return -1
		}
		if hasAnyPrefix(lines[i], frontMatterKeys) {
			hasKey = true
		}
	}
	return -1
}

// trimBlank drops leading and trailing whitespace-only lines.
func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func (c *Cleaner) skipLine(i int, line string, st *lineState) bool {
	if i <= st.frontMatterEnd && hasAnyPrefix(line, frontMatterPrefixes) {
		return true
	}

	// A repeated hours table runs until its pipe rows and footnote end.
	if st.inDuplicateHours {
		if strings.HasPrefix(line, "|") || hasAnyPrefix(line, c.config.FootnotePrefixes) {
			return true
		}
		st.inDuplicateHours = false
	}
	if st.inKeptHours && !strings.HasPrefix(line, "|") {
		st.inKeptHours = false
	}

	if containsAny(line, c.config.SkipPatterns) {
		return true
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "- [") && strings.Contains(line, "(") {
		st.inNavigation = true
		return true
	} else if st.inNavigation {
		if trimmed != "" && !strings.HasPrefix(trimmed, "-") {
			st.inNavigation = false
		} else {
			return true
		}
	}

	if containsAny(line, c.config.ReviewerHeadings) {
		if st.seenReviews {
			st.inDuplicateReview = true
			return true
		}
		st.seenReviews = true
	}

	if st.inDuplicateReview {
		// Any "###" line closes the skip, whatever it says.
		if strings.HasPrefix(line, "###") || strings.HasPrefix(line, "##") && !strings.Contains(line, "Reviews") {
			st.inDuplicateReview = false
		} else {
			return true
		}
	}

	if !st.inKeptHours && hasAnyPrefix(line, c.config.HoursSignatures) {
		if st.seenHours {
			st.inDuplicateHours = true
			return true
		}
		st.seenHours = true
		st.inKeptHours = true
	}

	return false
}

func containsAny(line string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(line, p) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
