// Package extract locates function definitions, call references and type
// declarations in the raw text of a source file.
//
// The default Pattern extractor is a heuristic: definitions are found by a
// line-anchored regular expression and bodies by brace counting. Braces inside
// string or character literals and comments are counted like any other, and a
// call is any name followed by an opening parenthesis, so macro invocations,
// tuple-struct constructors and shadowed locals all show up as calls. Callers
// should treat the output as best-effort.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/phobologic/fnctx/internal/lang"
	"github.com/phobologic/fnctx/internal/model"
)

// DefaultWindow is the number of characters kept after a signature whose
// closing delimiter cannot be found.
const DefaultWindow = 5000

// Extractor turns the text of one file into function and type records.
type Extractor interface {
	Extract(source []byte, path, modulePath string) (model.FileResult, error)
}

// Pattern is the regular-expression based Extractor.
type Pattern struct {
	lang       *lang.Language
	exclusions lang.Exclusions
	window     int
}

// NewPattern returns a Pattern extractor for l. window bounds unterminated
// bodies (DefaultWindow when <= 0) and ignored extends every call exclusion list.
func NewPattern(l *lang.Language, window int, ignored []string) *Pattern {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Pattern{
		lang:       l,
		exclusions: l.Exclusions.WithIgnored(ignored),
		window:     window,
	}
}

// Extract implements Extractor. It never fails.
func (p *Pattern) Extract(source []byte, path, modulePath string) (model.FileResult, error) {
	content := normalize(source)
	res := model.FileResult{Path: path, ModulePath: modulePath}

	def := p.lang.Patterns.Definition
	nameIdx := def.SubexpIndex("name")

	for _, loc := range def.FindAllStringSubmatchIndex(content, -1) {
		start := lineStart(content, loc[0])
		end := p.bodyEnd(content, loc[1])
		body := strings.TrimSpace(content[start:end])

		res.Functions = append(res.Functions, model.FunctionRecord{
			Name:       content[loc[2*nameIdx]:loc[2*nameIdx+1]],
			Path:       path,
			ModulePath: modulePath,
			Definition: body,
			Line:       lineNumber(content, start),
			Calls:      p.Calls(body),
		})
	}

	td := p.lang.Patterns.TypeDecl
	typeName, typeKind := td.SubexpIndex("name"), td.SubexpIndex("kind")
	for _, loc := range td.FindAllStringSubmatchIndex(content, -1) {
		res.Types = append(res.Types, model.TypeRecord{
			Name: content[loc[2*typeName]:loc[2*typeName+1]],
			Kind: model.TypeKind(content[loc[2*typeKind]:loc[2*typeKind+1]]),
			Line: lineNumber(content, lineStart(content, loc[0])),
		})
	}

	return res, nil
}

// bodyEnd scans forward from the end of a signature match and returns the
// offset just past the delimiter that closes the body. When no body is found
// it falls back to the window, counted in characters.
func (p *Pattern) bodyEnd(content string, from int) int {
	depth := 0
	opened := false
	for i := from; i < len(content); i++ {
		switch content[i] {
		case p.lang.OpenDelim:
			opened = true
			depth++
		case p.lang.CloseDelim:
			depth--
			if depth == 0 && opened {
				return i + 1
			}
		}
	}

	end := from
	for n := 0; n < p.window && end < len(content); n++ {
		_, size := utf8.DecodeRuneInString(content[end:])
		end += size
	}
	return end
}

// Calls returns the set of bare names referenced as calls in body: member
// calls, free calls and zero-argument builder calls, each filtered by its own
// exclusion list.
func (p *Pattern) Calls(body string) map[string]struct{} {
	calls := make(map[string]struct{})
	collect := func(pat *regexp.Regexp, skip map[string]struct{}) {
		idx := pat.SubexpIndex("name")
		for _, m := range pat.FindAllStringSubmatch(body, -1) {
			if _, ok := skip[m[idx]]; ok {
				continue
			}
			calls[m[idx]] = struct{}{}
		}
	}

	collect(p.lang.Patterns.MethodCall, p.exclusions.Methods)
	collect(p.lang.Patterns.FreeCall, p.exclusions.Free)
	collect(p.lang.Patterns.BuilderCall, p.exclusions.Builders)
	return calls
}

// normalize converts CRLF line endings to LF.
func normalize(source []byte) string {
	return strings.ReplaceAll(string(source), "\r\n", "\n")
}

func lineStart(content string, pos int) int {
	return strings.LastIndexByte(content[:pos], '\n') + 1
}

func lineNumber(content string, pos int) int {
	return strings.Count(content[:pos], "\n") + 1
}
