// Package selector resolves a requested function name to the qualified name
// traversal starts from.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phobologic/fnctx/internal/index"
	"github.com/phobologic/fnctx/internal/model"
)

// MaxSuggestions caps the near-matches reported for an unknown name.
const MaxSuggestions = 10

// ErrEmptyName is returned when no function name is given.
var ErrEmptyName = errors.New("empty function name")

// NotFoundError reports a requested name with no definition. Suggestions
// holds up to MaxSuggestions distinct definitions whose bare name contains
// the request; More counts the distinct matches left out.
type NotFoundError struct {
	Name        string
	Suggestions []index.Variant
	More        int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("function %q not found", e.Name)
}

// Selection is the outcome of a successful lookup.
type Selection struct {
	Qualified  string
	ModulePath string

	// Candidates lists every definition of the name when there was more
	// than one, in discovery order.
	Candidates []index.Variant

	// Preferred echoes the module hint; HintMatched reports whether it
	// picked the selection.
	Preferred   string
	HintMatched bool
}

// Ambiguous reports whether the name had several definitions.
func (s Selection) Ambiguous() bool {
	return len(s.Candidates) > 1
}

// Select picks a start function. An exact qualified name wins outright. A
// bare name with one definition is selected regardless of the hint; with
// several, the first whose module path contains preferred is chosen, else
// the first in discovery order. An unknown name yields a *NotFoundError.
func Select(idx *index.Index, name, preferred string) (Selection, error) {
	if name == "" {
		return Selection{}, ErrEmptyName
	}

	if strings.Contains(name, model.QualifiedSep) {
		if rec, ok := idx.Lookup(name); ok {
			return Selection{Qualified: name, ModulePath: rec.ModulePath}, nil
		}
	}

	variants := idx.Variants(name)
	switch len(variants) {
	case 0:
		return Selection{}, notFound(idx, name)
	case 1:
		return Selection{Qualified: variants[0].Qualified, ModulePath: variants[0].ModulePath}, nil
	}

	sel := Selection{
		Qualified:  variants[0].Qualified,
		ModulePath: variants[0].ModulePath,
		Candidates: variants,
		Preferred:  preferred,
	}
	if preferred == "" {
		return sel, nil
	}
	for _, v := range variants {
		if strings.Contains(v.ModulePath, preferred) {
			sel.Qualified = v.Qualified
			sel.ModulePath = v.ModulePath
			sel.HintMatched = true
			break
		}
	}
	return sel, nil
}

func notFound(idx *index.Index, name string) *NotFoundError {
	err := &NotFoundError{Name: name}
	seen := make(map[string]struct{})

	for _, bare := range idx.Names() {
		if !strings.Contains(bare, name) {
			continue
		}
		for _, v := range idx.Variants(bare) {
			if _, dup := seen[v.Qualified]; dup {
				continue
			}
			seen[v.Qualified] = struct{}{}
			if len(err.Suggestions) < MaxSuggestions {
				err.Suggestions = append(err.Suggestions, v)
			} else {
				err.More++
			}
		}
	}
	return err
}
