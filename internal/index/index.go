// Package index aggregates extracted function records into a symbol index
// keyed by qualified name and by bare name.
package index

import (
	"sort"

	"github.com/phobologic/fnctx/internal/model"
)

// Variant is one qualified definition of a bare function name.
type Variant struct {
	Qualified  string
	ModulePath string
}

// Index is the symbol index built from every extracted file.
type Index struct {
	definitions map[string]*model.FunctionRecord
	byName      map[string][]Variant
	types       int
}

// Build aggregates file results in the order given. A later record with the
// same qualified name replaces an earlier one, while the bare-name list gains
// an entry for every record, so a repeated qualified name is listed once per
// definition.
func Build(files []model.FileResult) *Index {
	idx := &Index{
		definitions: make(map[string]*model.FunctionRecord),
		byName:      make(map[string][]Variant),
	}

	for i := range files {
		fr := &files[i]
		idx.types += len(fr.Types)
		for j := range fr.Functions {
			rec := fr.Functions[j]
			q := rec.QualifiedName()
			idx.byName[rec.Name] = append(idx.byName[rec.Name], Variant{
				Qualified:  q,
				ModulePath: rec.ModulePath,
			})
			idx.definitions[q] = &rec
		}
	}

	return idx
}

// Lookup returns the record for a qualified name.
func (idx *Index) Lookup(qualified string) (*model.FunctionRecord, bool) {
	rec, ok := idx.definitions[qualified]
	return rec, ok
}

// Variants returns every definition of a bare name in discovery order,
// including repeats of the same qualified name.
func (idx *Index) Variants(name string) []Variant {
	return idx.byName[name]
}

// Names returns every bare function name, sorted.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.byName))
	for n := range idx.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Qualified returns every qualified name, sorted.
func (idx *Index) Qualified() []string {
	names := make([]string, 0, len(idx.definitions))
	for q := range idx.definitions {
		names = append(names, q)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct qualified functions.
func (idx *Index) Len() int {
	return len(idx.definitions)
}

// TypeCount returns the number of type declarations seen while building.
func (idx *Index) TypeCount() int {
	return idx.types
}
