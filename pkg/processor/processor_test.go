package processor_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/xhad/kbprep/pkg/processor"
)

type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

type failingSplitter struct{}

func (failingSplitter) SplitText(string) ([]string, error) {
	return nil, errors.New("splitter exploded")
}

type fixedSplitter []string

func (f fixedSplitter) SplitText(string) ([]string, error) {
	return f, nil
}

func TestProcessor_Process(t *testing.T) {
	scratch := t.TempDir()
	long := strings.Repeat("Porcelain veneers cover the front surface of teeth. ", 4)
	p, err := processor.NewWithConfig(processor.ProcessorConfig{
		MinTokens:  5,
		ScratchDir: scratch,
		Counter:    wordCounter{},
		Splitter: fixedSplitter{
			long,
			"Too short to keep.",
			"   " + strings.Repeat("x ", 30) + "   ",
		},
	})
	require.NoError(t, err)

	passages, err := p.Process(context.Background(), "services_cosmetic_veneers.md", "ignored by fixed splitter")
	require.NoError(t, err)

	require.Len(t, passages, 1)
	assert.Equal(t, long, passages[0].Content)
	assert.Equal(t, "services_cosmetic_veneers.md", passages[0].Metadata["source"])
	assert.Equal(t, 0, passages[0].Metadata["chunkIndex"])
	assert.Equal(t, 32, passages[0].Metadata["tokenCount"])

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch file must be removed")
}

func TestProcessor_ProcessRecursiveSplitter(t *testing.T) {
	p, err := processor.NewWithConfig(processor.ProcessorConfig{
		MinTokens:  1,
		MinChars:   20,
		ScratchDir: t.TempDir(),
		Counter:    wordCounter{},
		Splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(60),
			textsplitter.WithChunkOverlap(0),
		),
	})
	require.NoError(t, err)

	text := "Dental implants replace missing roots.\n\nBone grafting may be needed first.\n\nHealing takes a few months."
	passages, err := p.Process(context.Background(), "implants.md", text)
	require.NoError(t, err)

	require.NotEmpty(t, passages)
	for _, passage := range passages {
		assert.GreaterOrEqual(t, len(strings.TrimSpace(passage.Content)), 20)
		assert.Contains(t, text, strings.TrimSpace(passage.Content))
	}
}

func TestProcessor_ScratchRemovedOnError(t *testing.T) {
	scratch := t.TempDir()
	p, err := processor.NewWithConfig(processor.ProcessorConfig{
		ScratchDir: scratch,
		Counter:    wordCounter{},
		Splitter:   failingSplitter{},
	})
	require.NoError(t, err)

	_, err = p.Process(context.Background(), "broken.md", "some text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.md")

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcessor_InvalidOverlap(t *testing.T) {
	_, err := processor.NewWithConfig(processor.ProcessorConfig{
		MaxTokens:     50,
		OverlapTokens: 50,
		Counter:       wordCounter{},
	})
	assert.Error(t, err)
}

func TestProcessor_OverlapBounds(t *testing.T) {
	tests := []struct {
		name    string
		overlap int
		wantErr bool
	}{
		{"zero means no overlap", 0, false},
		{"below max", 9, false},
		{"negative", -1, true},
		{"equal to max", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := processor.NewWithConfig(processor.ProcessorConfig{
				MaxTokens:     10,
				OverlapTokens: tt.overlap,
				Counter:       wordCounter{},
			})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTiktokenSplitter(t *testing.T) {
	counter, err := processor.NewTiktokenCounter("r50k_base")
	if err != nil {
		t.Skipf("tokenizer unavailable: %v", err)
	}

	p, err := processor.NewWithConfig(processor.ProcessorConfig{
		MaxTokens:     40,
		OverlapTokens: 5,
		MinTokens:     10,
		MinChars:      20,
		ScratchDir:    t.TempDir(),
		Counter:       counter,
	})
	require.NoError(t, err)

	text := strings.Repeat("Root canal therapy removes infected pulp and saves the natural tooth. ", 10)
	passages, err := p.Process(context.Background(), "root-canal.md", text)
	require.NoError(t, err)

	require.Greater(t, len(passages), 1)
	for _, passage := range passages {
		// Re-encoding a decoded window can shift a token at the edges.
		assert.LessOrEqual(t, counter.CountTokens(passage.Content), 42)
	}
}
