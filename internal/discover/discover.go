// Package discover finds candidate source files under a project root and
// derives their module paths.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// ErrNotDirectory is returned when the project root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path       string // Root as given joined with Rel
	Rel        string // Relative to the project root, slash separated
	ModulePath string
}

// Options controls which files Files returns.
type Options struct {
	// Extension is the target source suffix, including the dot.
	Extension string
	// Exclude holds glob patterns matched against Rel. Matching
	// directories are pruned.
	Exclude []string
	// Gitignore skips paths ignored by the root .gitignore.
	Gitignore bool
}

// Files walks root and returns every regular file whose extension matches
// opts.Extension, in traversal order. Errors on individual entries are
// skipped; an unreadable root is returned as an error.
func Files(root string, opts Options) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	excludes, err := compileGlobs(opts.Exclude)
	if err != nil {
		return nil, err
	}
	var gi *ignore.GitIgnore
	if opts.Gitignore {
		gi = loadGitignore(root)
	}

	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under root as given.
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}

	var results []FileEntry

	err = filepath.WalkDir(walkRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return err
			}
			return nil // skip errors
		}
		if path == walkRoot {
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matchAny(excludes, rel) || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		// Regular files only; symlinks are not followed.
		if !d.Type().IsRegular() {
			return nil
		}
		if filepath.Ext(path) != opts.Extension {
			return nil
		}
		if matchAny(excludes, rel) || (gi != nil && gi.MatchesPath(rel)) {
			return nil
		}

		results = append(results, FileEntry{
			Path:       filepath.Join(root, filepath.FromSlash(rel)),
			Rel:        rel,
			ModulePath: ModulePath(rel, opts.Extension),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return results, nil
}

// ModulePath converts a root-relative file path into a "::" joined module
// path: separators become "::", the extension is stripped, and a trailing
// lib or mod segment collapses into its parent module.
func ModulePath(rel, ext string) string {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ext)
	rel = strings.ReplaceAll(rel, `\`, "/")
	modulePath := strings.ReplaceAll(rel, "/", "::")

	for _, tail := range []string{"::lib", "::mod"} {
		if strings.HasSuffix(modulePath, tail) {
			return strings.TrimSuffix(modulePath, tail)
		}
	}
	return modulePath
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}

func matchAny(matchers []glob.Glob, rel string) bool {
	for _, g := range matchers {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
