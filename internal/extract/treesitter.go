package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/fnctx/internal/lang"
	"github.com/phobologic/fnctx/internal/model"
)

var typeCaptures = map[string]model.TypeKind{
	"definition.struct": model.Struct,
	"definition.enum":   model.Enum,
	"definition.type":   model.Alias,
	"definition.trait":  model.Trait,
}

// TreeSitter is a grammar-backed Extractor. It produces the same records as
// Pattern but takes function boundaries and call sites from the syntax tree,
// so delimiters inside literals and comments no longer skew the result.
type TreeSitter struct {
	lang       *lang.Language
	exclusions lang.Exclusions
}

// NewTreeSitter returns a TreeSitter extractor for l. The tag query is
// compiled eagerly so a broken grammar is reported before any file is read.
func NewTreeSitter(l *lang.Language, ignored []string) (*TreeSitter, error) {
	if _, err := l.GetTagQuery(); err != nil {
		return nil, fmt.Errorf("%s query: %w", l.Name, err)
	}
	return &TreeSitter{lang: l, exclusions: l.Exclusions.WithIgnored(ignored)}, nil
}

type callRef struct {
	name string
	pos  uint32
}

type funcSpan struct {
	rec        model.FunctionRecord
	start, end uint32
}

// Extract implements Extractor. A fresh parser is created per call since
// parsers are not safe for concurrent use.
func (ts *TreeSitter) Extract(source []byte, path, modulePath string) (model.FileResult, error) {
	res := model.FileResult{Path: path, ModulePath: modulePath}
	content := normalize(source)
	if content == "" {
		return res, nil
	}
	src := []byte(content)

	query, err := ts.lang.GetTagQuery()
	if err != nil {
		return res, err
	}

	tree, err := ts.lang.NewParser().ParseCtx(context.Background(), nil, src)
	if err != nil {
		return res, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var funcs []funcSpan
	var refs []callRef

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, src)

		var nameNode, node *sitter.Node
		var capture string
		for _, c := range match.Captures {
			cname := query.CaptureNameForId(c.Index)
			if cname == "name" {
				nameNode = c.Node
			} else {
				capture = cname
				node = c.Node
			}
		}
		if nameNode == nil || node == nil {
			continue
		}
		name := nameNode.Content(src)

		switch capture {
		case "definition.function":
			start := lineStart(content, int(node.StartByte()))
			funcs = append(funcs, funcSpan{
				rec: model.FunctionRecord{
					Name:       name,
					Path:       path,
					ModulePath: modulePath,
					Definition: strings.TrimSpace(content[start:node.EndByte()]),
					Line:       int(node.StartPoint().Row) + 1,
					Calls:      make(map[string]struct{}),
				},
				start: node.StartByte(),
				end:   node.EndByte(),
			})
		case "reference.call":
			if ts.excluded(name, ts.exclusions.Free, ts.exclusions.Builders) {
				continue
			}
			refs = append(refs, callRef{name: name, pos: nameNode.StartByte()})
		case "reference.method":
			if ts.excluded(name, ts.exclusions.Methods) {
				continue
			}
			refs = append(refs, callRef{name: name, pos: nameNode.StartByte()})
		default:
			if kind, ok := typeCaptures[capture]; ok {
				res.Types = append(res.Types, model.TypeRecord{
					Name: name,
					Kind: kind,
					Line: int(node.StartPoint().Row) + 1,
				})
			}
		}
	}

	// A call belongs to every function whose text contains it, which matches
	// the text-window view of the pattern extractor for nested functions.
	for i := range funcs {
		for _, r := range refs {
			if r.pos >= funcs[i].start && r.pos < funcs[i].end {
				funcs[i].rec.Calls[r.name] = struct{}{}
			}
		}
		res.Functions = append(res.Functions, funcs[i].rec)
	}

	return res, nil
}

func (ts *TreeSitter) excluded(name string, lists ...map[string]struct{}) bool {
	for _, l := range lists {
		if _, ok := l[name]; ok {
			return true
		}
	}
	return false
}
