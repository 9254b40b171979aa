// Package assemble walks the call graph from a start function and renders the
// context document.
package assemble

import (
	"io"
	"strings"

	"github.com/phobologic/fnctx/internal/graph"
	"github.com/phobologic/fnctx/internal/index"
)

// Section is one function in the document.
type Section struct {
	Qualified  string
	Path       string
	Definition string
}

// Document is the ordered list of visited functions.
type Document struct {
	Sections []Section
}

// Context performs a breadth-first traversal from start. Each qualified name
// is expanded at most once; edges to names missing from the index are
// skipped.
func Context(idx *index.Index, g graph.CallGraph, start string) *Document {
	doc := &Document{}
	visited := make(map[string]struct{})
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if _, ok := visited[current]; ok {
			continue
		}
		visited[current] = struct{}{}

		rec, ok := idx.Lookup(current)
		if !ok {
			continue
		}
		doc.Sections = append(doc.Sections, Section{
			Qualified:  current,
			Path:       rec.Path,
			Definition: rec.Definition,
		})

		queue = append(queue, g.Callees(current)...)
	}

	return doc
}

// Qualified returns the qualified names of the sections in order.
func (d *Document) Qualified() []string {
	out := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Qualified
	}
	return out
}

// String renders every section as "\n=== path ===\n" + definition + "\n\n".
func (d *Document) String() string {
	var b strings.Builder
	for _, s := range d.Sections {
		b.WriteString("\n=== ")
		b.WriteString(s.Path)
		b.WriteString(" ===\n")
		b.WriteString(s.Definition)
		b.WriteString("\n\n")
	}
	return b.String()
}

// WriteTo writes the rendered document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}
