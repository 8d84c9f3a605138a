// Package processor adapts the langchaingo document loader and token text
// splitter into the passage chunker used by the pipeline.
package processor

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/xhad/kbprep/internal/models"
	"github.com/xhad/kbprep/internal/types"
)

type ProcessorConfig struct {
	MaxTokens     int
	OverlapTokens int // 0 disables overlap
	MinTokens     int
	MinChars      int
	Tokenizer     string
	ScratchDir    string

	// Optional overrides; built from Tokenizer when nil.
	Splitter textsplitter.TextSplitter
	Counter  types.TokenCounter
}

type Processor struct {
	config   ProcessorConfig
	splitter textsplitter.TextSplitter
	counter  types.TokenCounter
}

func NewWithConfig(config ProcessorConfig) (*Processor, error) {
	if config.MaxTokens == 0 {
		config.MaxTokens = 350
	}
	if config.MinChars == 0 {
		config.MinChars = 100
	}
	if config.Tokenizer == "" {
		config.Tokenizer = "r50k_base"
	}
	if config.OverlapTokens < 0 || config.OverlapTokens >= config.MaxTokens {
		return nil, fmt.Errorf("overlap %d must be between 0 and max tokens %d", config.OverlapTokens, config.MaxTokens)
	}

	counter := config.Counter
	if counter == nil {
		tc, err := NewTiktokenCounter(config.Tokenizer)
		if err != nil {
			return nil, err
		}
		counter = tc
	}

	splitter := config.Splitter
	if splitter == nil {
		splitter = textsplitter.NewTokenSplitter(
			textsplitter.WithChunkSize(config.MaxTokens),
			textsplitter.WithChunkOverlap(config.OverlapTokens),
			textsplitter.WithEncodingName(config.Tokenizer),
		)
	}

	return &Processor{
		config:   config,
		splitter: splitter,
		counter:  counter,
	}, nil
}

// Process writes text to a scratch file, loads and splits it, and drops
// passages under the token and character floors.
func (p *Processor) Process(ctx context.Context, filename, text string) ([]models.Passage, error) {
	path, err := p.writeScratch(text)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scratch file: %w", err)
	}
	defer f.Close()

	docs, err := documentloaders.NewText(f).LoadAndSplit(ctx, p.splitter)
	if err != nil {
		return nil, fmt.Errorf("failed to split %s: %w", filename, err)
	}

	passages := make([]models.Passage, 0, len(docs))
	for i, doc := range docs {
		tokens := p.counter.CountTokens(doc.PageContent)
		if tokens < p.config.MinTokens {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(doc.PageContent)) < p.config.MinChars {
			continue
		}

		meta := make(map[string]any, len(doc.Metadata)+3)
		maps.Copy(meta, doc.Metadata)
		meta["source"] = filename
		meta["chunkIndex"] = i
		meta["tokenCount"] = tokens

		passages = append(passages, models.Passage{
			Content:  doc.PageContent,
			Metadata: meta,
		})
	}

	return passages, nil
}

func (p *Processor) writeScratch(text string) (string, error) {
	f, err := os.CreateTemp(p.config.ScratchDir, "kbprep-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}
	return f.Name(), nil
}
