package fsutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{"/plans/b.hcl", "/plans/a.hcl", "/plans/notes.md", "/plans/nested/c.hcl", "/single.txt"} {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}

	files, err := FindFiles(fs, []string{"/plans", "/single.txt", "/plans/a.hcl"}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{"/plans/a.hcl", "/plans/b.hcl", "/plans/nested/c.hcl", "/single.txt"}, files)
}

func TestFindFiles_MissingPath(t *testing.T) {
	_, err := FindFiles(afero.NewMemMapFs(), []string{"/nope"}, ".hcl")
	assert.ErrorContains(t, err, "does not exist")
}

func TestFindFiles_NoExtensionsPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFiles(afero.NewMemMapFs(), nil) })
}
