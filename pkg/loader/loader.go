package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/xhad/kbprep/internal/models"
)

var (
	ErrMissingInput = errors.New("knowledge base directory not found")
	ErrNoDocuments  = errors.New("no markdown files found")
)

type LoaderConfig struct {
	Dir        string
	Pattern    string
	OnProgress func(path string)
}

type Loader struct {
	config LoaderConfig
}

func NewWithConfig(config LoaderConfig) *Loader {
	if config.Pattern == "" {
		config.Pattern = "*.md"
	}
	return &Loader{config: config}
}

func New(dir string) *Loader {
	return NewWithConfig(LoaderConfig{Dir: dir})
}

// List returns the matching files under the knowledge base directory in
// lexical order.
func (l *Loader) List() ([]string, error) {
	info, err := os.Stat(l.config.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, l.config.Dir)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", l.config.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrMissingInput, l.config.Dir)
	}

	matches, err := doublestar.Glob(os.DirFS(l.config.Dir), l.config.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", l.config.Pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, l.config.Dir)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(l.config.Dir, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) Read(path string) (models.RawDocument, error) {
	if l.config.OnProgress != nil {
		l.config.OnProgress(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.RawDocument{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	return models.RawDocument{
		Name:    filepath.Base(path),
		Path:    path,
		Content: string(data),
	}, nil
}
