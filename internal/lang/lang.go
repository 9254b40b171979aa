// Package lang provides a language registry mapping file extensions to the
// text patterns, call-noise exclusion lists and tree-sitter grammars used to
// extract functions from source files.
package lang

import (
	"embed"
	"fmt"
	"regexp"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Patterns holds the line-anchored and body-level regular expressions for a
// language. Definition and TypeDecl must expose a "name" group; TypeDecl also
// exposes a "kind" group. The call patterns expose a "name" group.
type Patterns struct {
	Definition  *regexp.Regexp
	TypeDecl    *regexp.Regexp
	MethodCall  *regexp.Regexp
	FreeCall    *regexp.Regexp
	BuilderCall *regexp.Regexp
}

// Exclusions lists bare names dropped from each call category.
type Exclusions struct {
	Methods  map[string]struct{}
	Free     map[string]struct{}
	Builders map[string]struct{}
}

// Language holds extraction configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	Patterns   Patterns
	Exclusions Exclusions

	// OpenDelim and CloseDelim delimit a function body.
	OpenDelim  byte
	CloseDelim byte

	lang      *sitter.Language
	queryOnce sync.Once
	query     *sitter.Query
	queryErr  error
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetTagQuery returns the compiled tree-sitter query (safe to share across goroutines).
func (l *Language) GetTagQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

func nameSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// WithIgnored returns a copy of e with extra names added to every category.
func (e Exclusions) WithIgnored(extra []string) Exclusions {
	if len(extra) == 0 {
		return e
	}
	merge := func(base map[string]struct{}) map[string]struct{} {
		out := make(map[string]struct{}, len(base)+len(extra))
		for k := range base {
			out[k] = struct{}{}
		}
		for _, n := range extra {
			out[n] = struct{}{}
		}
		return out
	}
	return Exclusions{
		Methods:  merge(e.Methods),
		Free:     merge(e.Free),
		Builders: merge(e.Builders),
	}
}
