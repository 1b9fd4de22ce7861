package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
}

func relPaths(files []DescriptionFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, filepath.ToSlash(f.RelPath))
	}
	return out
}

func TestFindDescriptions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"resnet.yaml":                 "nodes: []",
		"bert.json":                   "{}",
		"nested/vgg.yml":              "nodes: []",
		"nested/notes.md":             "# notes",
		"generated/tmp.yaml":          "nodes: []",
		"scratch.yaml":                "nodes: []",
		".git/config.yaml":            "x: 1",
		".layerviz/badger/x.json":     "{}",
		"node_modules/pkg/index.json": "{}",
		".gitignore":                  "generated/\nscratch.yaml\n# comment\n",
	})

	files, err := FindDescriptions(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"bert.json", "nested/vgg.yml", "resnet.yaml"}, relPaths(files))
	for _, f := range files {
		assert.Equal(t, filepath.Join(root, f.RelPath), f.Path)
	}
}

func TestFindDescriptions_NoGitignore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.yaml":     "nodes: []",
		"b/C.JSON":   "{}",
		"b/skip.txt": "x",
	})

	files, err := FindDescriptions(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b/C.JSON"}, relPaths(files))
}

func TestFindDescriptions_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := FindDescriptions(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
