package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAndRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_services.md"), []byte("# B"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_about.md"), []byte("# A"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.md"), 0755))

	var seen []string
	l := NewWithConfig(LoaderConfig{
		Dir: dir,
		OnProgress: func(path string) {
			seen = append(seen, filepath.Base(path))
		},
	})

	paths, err := l.List()
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "a_about.md", filepath.Base(paths[0]))
	assert.Equal(t, "b_services.md", filepath.Base(paths[1]))

	doc, err := l.Read(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "a_about.md", doc.Name)
	assert.Equal(t, "# A", doc.Content)
	assert.Equal(t, []string{"a_about.md"}, seen)
}

func TestListMissingDirectory(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "missing"))

	_, err := l.List()
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestListNoDocuments(t *testing.T) {
	l := New(t.TempDir())

	_, err := l.List()
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestReadMissingFile(t *testing.T) {
	l := New(t.TempDir())

	_, err := l.Read(filepath.Join(t.TempDir(), "gone.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.md")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
