// Package graph resolves raw call names into qualified call edges.
package graph

import (
	"sort"

	"github.com/phobologic/fnctx/internal/index"
)

// CallGraph maps a qualified function name to the qualified names it calls.
// Edge lists are deduplicated and sorted.
type CallGraph map[string][]string

// Callees returns the resolved edges of a qualified name.
func (g CallGraph) Callees(qualified string) []string {
	return g[qualified]
}

// EdgeCount returns the total number of resolved edges.
func (g CallGraph) EdgeCount() int {
	n := 0
	for _, edges := range g {
		n += len(edges)
	}
	return n
}

// BuildCallGraph resolves the raw calls of every defined function.
// Unknown names are dropped. A name with a single definition resolves to it;
// with several, the caller's own module wins, otherwise the first definition
// in discovery order. Every defined function gets an entry, possibly empty.
func BuildCallGraph(idx *index.Index) CallGraph {
	g := make(CallGraph, idx.Len())

	for _, q := range idx.Qualified() {
		rec, _ := idx.Lookup(q)

		resolved := make(map[string]struct{}, len(rec.Calls))
		for call := range rec.Calls {
			if target, ok := Resolve(idx, call, rec.ModulePath); ok {
				resolved[target] = struct{}{}
			}
		}

		g[q] = sortedKeys(resolved)
	}

	return g
}

// Resolve picks the qualified definition a call to name from callerModule
// refers to.
func Resolve(idx *index.Index, name, callerModule string) (string, bool) {
	variants := idx.Variants(name)
	switch len(variants) {
	case 0:
		return "", false
	case 1:
		return variants[0].Qualified, true
	}

	for _, v := range variants {
		if v.ModulePath == callerModule {
			return v.Qualified, true
		}
	}
	return variants[0].Qualified, true
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
