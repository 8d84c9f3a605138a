package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xhad/kbprep/internal/models"
)

const (
	// Pairs must be strictly longer than these to be kept.
	minQuestionChars = 10
	minAnswerChars   = 20

	// The end-of-section search skips the marker itself.
	sectionSearchOffset = 10
)

var faqMarkers = []string{"### FAQ", "**FAQ**"}

// QA is one question/answer pair parsed from an FAQ section.
type QA struct {
	Question string
	Answer   string
}

// FAQs splits the FAQ section of content into one chunk per Q&A pair.
func (e *Extractor) FAQs(content, filename string) []models.Chunk {
	section, ok := faqSection(content)
	if !ok {
		return nil
	}

	var chunks []models.Chunk
	for _, qa := range ParseQA(section) {
		if utf8.RuneCountInString(qa.Question) <= minQuestionChars ||
			utf8.RuneCountInString(qa.Answer) <= minAnswerChars {
			continue
		}
		meta := e.practiceFields(map[string]any{
			"contentType": "faq",
			"question":    qa.Question,
			"source":      filename,
		})
		chunks = append(chunks, newChunk(fmt.Sprintf("Q: %s\n\nA: %s", qa.Question, qa.Answer), meta))
	}
	return chunks
}

// faqSection returns content from the FAQ marker up to the next "### "
// heading.
func faqSection(content string) (string, bool) {
	start := -1
	for _, marker := range faqMarkers {
		if start = strings.Index(content, marker); start != -1 {
			break
		}
	}
	if start == -1 {
		return "", false
	}

	section := content[start:]
	if len(section) > sectionSearchOffset {
		if end := strings.Index(section[sectionSearchOffset:], "\n### "); end != -1 {
			section = section[:sectionSearchOffset+end]
		}
	}
	return section, true
}

// ParseQA finds "**question**" markers followed by a line break and takes
// the text up to the next line-leading "**" or "###" as the answer. Pairs
// are returned trimmed and unfiltered.
func ParseQA(section string) []QA {
	var pairs []QA
	pos := 0
	for pos < len(section) {
		open := strings.Index(section[pos:], "**")
		if open == -1 {
			break
		}
		qStart := pos + open + 2

		qEnd, answerStart, ok := closeQuestion(section, qStart)
		if !ok {
			break
		}

		answerEnd := answerTerminator(section, answerStart)
		pairs = append(pairs, QA{
			Question: strings.TrimSpace(section[qStart:qEnd]),
			Answer:   strings.TrimSpace(section[answerStart:answerEnd]),
		})
		pos = answerEnd
	}
	return pairs
}

// closeQuestion finds the first "**" at or after from whose trailing
// whitespace contains a newline.
func closeQuestion(s string, from int) (qEnd, answerStart int, ok bool) {
	for k := from; k < len(s); {
		idx := strings.Index(s[k:], "**")
		if idx == -1 {
			return 0, 0, false
		}
		closeAt := k + idx
		w := closeAt + 2
		for w < len(s) && isSpace(s[w]) {
			w++
		}
		if strings.Contains(s[closeAt+2:w], "\n") {
			return closeAt, w, true
		}
		k = closeAt + 1
	}
	return 0, 0, false
}

// answerTerminator returns where the answer starting at from ends.
func answerTerminator(s string, from int) int {
	// The newline just before from may introduce the next marker.
	if from > 0 && s[from-1] == '\n' && startsMarker(s[from:]) {
		return from
	}
	for i := from; i < len(s); i++ {
		if s[i] == '\n' && startsMarker(s[i+1:]) {
			return i
		}
	}
	return len(s)
}

func startsMarker(s string) bool {
	return strings.HasPrefix(s, "**") || strings.HasPrefix(s, "###")
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
