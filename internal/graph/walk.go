package graph

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DescriptionFile is a graph description found under a directory.
type DescriptionFile struct {
	// Path is the file path as walked (root joined with RelPath).
	Path string

	// RelPath is the path relative to the walked root.
	RelPath string
}

// File extensions recognized as graph descriptions.
var descriptionExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// Default patterns to ignore (in addition to .gitignore).
var defaultIgnorePatterns = []string{
	".git/",
	".layerviz/",
	"node_modules/",
	"__pycache__/",
	".venv/",
	"venv/",
	".ipynb_checkpoints/",
	".mypy_cache/",
	".pytest_cache/",
}

// FindDescriptions walks root and returns every YAML or JSON file, sorted by
// relative path. Directories and files matched by root/.gitignore or by the
// default ignore patterns are skipped.
func FindDescriptions(root string) ([]DescriptionFile, error) {
	patterns, err := loadGitignore(root)
	if err != nil {
		return nil, errors.Wrap(err, "loading .gitignore")
	}

	all := make([]gitignore.Pattern, 0, len(defaultIgnorePatterns)+len(patterns))
	for _, p := range defaultIgnorePatterns {
		all = append(all, gitignore.ParsePattern(p, nil))
	}
	all = append(all, patterns...)
	matcher := gitignore.NewMatcher(all)

	var files []DescriptionFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" || matcher.Match(splitPath(relPath), true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !descriptionExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		if matcher.Match(splitPath(relPath), false) {
			return nil
		}

		files = append(files, DescriptionFile{Path: path, RelPath: relPath})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// loadGitignore loads .gitignore patterns from the root directory.
func loadGitignore(root string) ([]gitignore.Pattern, error) {
	content, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns, nil
}

// splitPath splits a path into its components.
func splitPath(path string) []string {
	return strings.Split(path, string(filepath.Separator))
}
