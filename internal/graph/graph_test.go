package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phobologic/fnctx/internal/index"
	"github.com/phobologic/fnctx/internal/model"
)

func fn(module, name string, calls ...string) model.FunctionRecord {
	set := make(map[string]struct{}, len(calls))
	for _, c := range calls {
		set[c] = struct{}{}
	}
	return model.FunctionRecord{Name: name, ModulePath: module, Path: module + ".rs", Calls: set}
}

func file(module string, fns ...model.FunctionRecord) model.FileResult {
	return model.FileResult{Path: module + ".rs", ModulePath: module, Functions: fns}
}

func TestBuildCallGraphSameModulePreferred(t *testing.T) {
	t.Parallel()

	idx := index.Build([]model.FileResult{
		file("b", fn("b", "run")),
		file("a", fn("a", "run"), fn("a", "start", "run")),
	})

	g := BuildCallGraph(idx)
	assert.Equal(t, []string{"a::run"}, g.Callees("a::start"))
}

func TestBuildCallGraphFallsBackToFirstVariant(t *testing.T) {
	t.Parallel()

	idx := index.Build([]model.FileResult{
		file("b", fn("b", "run")),
		file("a", fn("a", "run")),
		file("c", fn("c", "main", "run")),
	})

	g := BuildCallGraph(idx)
	assert.Equal(t, []string{"b::run"}, g.Callees("c::main"))
}

func TestBuildCallGraphSingleVariant(t *testing.T) {
	t.Parallel()

	idx := index.Build([]model.FileResult{
		file("util", fn("util", "helper")),
		file("app", fn("app", "main", "helper")),
	})

	g := BuildCallGraph(idx)
	assert.Equal(t, []string{"util::helper"}, g.Callees("app::main"))
}

func TestBuildCallGraphDropsUnresolved(t *testing.T) {
	t.Parallel()

	idx := index.Build([]model.FileResult{
		file("app", fn("app", "main", "println_like", "external_crate_fn")),
	})

	g := BuildCallGraph(idx)
	edges, ok := g["app::main"]
	assert.True(t, ok, "every defined function has an entry")
	assert.Empty(t, edges)
	assert.Zero(t, g.EdgeCount())
}

func TestBuildCallGraphSortedAndCoversAll(t *testing.T) {
	t.Parallel()

	idx := index.Build([]model.FileResult{
		file("m", fn("m", "zeta"), fn("m", "alpha"), fn("m", "main", "zeta", "alpha", "main")),
	})

	g := BuildCallGraph(idx)
	assert.Len(t, g, 3)
	assert.Equal(t, []string{"m::alpha", "m::main", "m::zeta"}, g.Callees("m::main"))
	assert.Equal(t, 3, g.EdgeCount())
}

func TestResolve(t *testing.T) {
	t.Parallel()

	idx := index.Build([]model.FileResult{
		file("x", fn("x", "go")),
		file("y", fn("y", "go")),
	})

	tests := []struct {
		name, caller, want string
		ok                 bool
	}{
		{"go", "y", "y::go", true},
		{"go", "x", "x::go", true},
		{"go", "z", "x::go", true},
		{"stop", "x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name+"@"+tt.caller, func(t *testing.T) {
			t.Parallel()
			got, ok := Resolve(idx, tt.name, tt.caller)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
