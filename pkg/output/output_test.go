package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/kbprep/internal/models"
)

func sampleChunks() []models.Chunk {
	return []models.Chunk{
		{
			Text: "Shoreline Dental Chicago Business Hours:\n\nSunday: Closed",
			Metadata: map[string]any{
				"contentType": "business-hours",
				"category":    "scheduling",
				"priority":    "high",
			},
		},
		{
			Text: "Veneers <thin shells> cost $900 & up — “porcelain”.",
			Metadata: map[string]any{
				"contentType": "pricing",
				"hasPrice":    true,
				"hasFAQ":      false,
				"doctors":     []string{"Dr. Mollie Rojas", "Dr. Sonal Patel"},
				"chunkIndex":  3,
				"tokenCount":  81,
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed-chunks.json")
	chunks := sampleChunks()

	size, err := WriteChunks(path, chunks)
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(written)), size)
	assert.Contains(t, string(written), "<thin shells>")

	read, err := ReadChunks(path)
	require.NoError(t, err)
	require.Len(t, read, len(chunks))

	for i := range chunks {
		assert.Equal(t, chunks[i].Text, read[i].Text)

		want, err := Encode(chunks[i].Metadata)
		require.NoError(t, err)
		got, err := Encode(read[i].Metadata)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}

	again, err := Encode(read)
	require.NoError(t, err)
	assert.Equal(t, string(written), string(again))
}

func TestWriteChunksEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	_, err := WriteChunks(path, nil)
	require.NoError(t, err)

	read, err := ReadChunks(path)
	require.NoError(t, err)
	assert.Empty(t, read)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteReport(filepath.Join(dir, "report.json"), map[string]any{"total_chunks": 2})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestWriteFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chunks.json")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0644))

	_, err := WriteReport(path, map[string]any{"bad": func() {}})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestReadChunksMissing(t *testing.T) {
	_, err := ReadChunks(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}
