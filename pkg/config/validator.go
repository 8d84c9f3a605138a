package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate paths
	if strings.TrimSpace(c.Paths.KnowledgeBase) == "" {
		errors = append(errors, ValidationError{
			Field:   "paths.knowledge_base",
			Message: "knowledge base directory is required",
		})
	}

	if !doublestar.ValidatePattern(c.Paths.Pattern) {
		errors = append(errors, ValidationError{
			Field:   "paths.pattern",
			Message: fmt.Sprintf("invalid glob pattern: %s", c.Paths.Pattern),
		})
	}

	if strings.TrimSpace(c.Paths.Output) == "" {
		errors = append(errors, ValidationError{
			Field:   "paths.output",
			Message: "output file is required",
		})
	}

	// Validate chunker config
	if c.Chunker.MaxTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "chunker.max_tokens",
			Message: "max_tokens must be positive",
		})
	}

	if c.Chunker.OverlapTokens < 0 || c.Chunker.OverlapTokens >= c.Chunker.MaxTokens {
		errors = append(errors, ValidationError{
			Field:   "chunker.overlap_tokens",
			Message: "overlap_tokens must be non-negative and less than max_tokens",
		})
	}

	if c.Chunker.MinTokens < 0 || c.Chunker.MinTokens > c.Chunker.MaxTokens {
		errors = append(errors, ValidationError{
			Field:   "chunker.min_tokens",
			Message: "min_tokens must be between 0 and max_tokens",
		})
	}

	if c.Chunker.Tokenizer == "" {
		errors = append(errors, ValidationError{
			Field:   "chunker.tokenizer",
			Message: "tokenizer is required",
		})
	}

	// Validate practice profile
	if strings.TrimSpace(c.Practice.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "practice.name",
			Message: "practice name is required",
		})
	}

	// Validate analyzer thresholds
	if c.Analyzer.ShortChars >= c.Analyzer.LongChars {
		errors = append(errors, ValidationError{
			Field:   "analyzer.short_chars",
			Message: "short_chars must be less than long_chars",
		})
	}

	if c.Analyzer.DuplicatePrefix < 1 {
		errors = append(errors, ValidationError{
			Field:   "analyzer.duplicate_prefix",
			Message: "duplicate_prefix must be positive",
		})
	}

	return errors
}
