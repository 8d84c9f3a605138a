// Package output serializes chunk lists and reports to JSON files.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xhad/kbprep/internal/models"
)

var ErrNotFound = errors.New("chunks file not found")

const indent = "  "

// Encode renders v as indented JSON without HTML escaping.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteChunks writes chunks as a JSON array and returns the file size.
// The file is replaced atomically; on error the previous file is untouched.
func WriteChunks(path string, chunks []models.Chunk) (int64, error) {
	if chunks == nil {
		chunks = []models.Chunk{}
	}
	return writeJSON(path, chunks)
}

// WriteReport writes an analyzer summary.
func WriteReport(path string, report any) (int64, error) {
	return writeJSON(path, report)
}

// ReadChunks loads a chunks file. Numbers are kept as json.Number so that
// re-encoding reproduces the original bytes.
func ReadChunks(path string) ([]models.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var chunks []models.Chunk
	if err := dec.Decode(&chunks); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return chunks, nil
}

func writeJSON(path string, v any) (int64, error) {
	data, err := Encode(v)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return int64(len(data)), nil
}
