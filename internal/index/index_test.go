package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/fnctx/internal/model"
)

func fn(module, name, def string) model.FunctionRecord {
	return model.FunctionRecord{
		Name:       name,
		Path:       module + ".rs",
		ModulePath: module,
		Definition: def,
		Calls:      map[string]struct{}{},
	}
}

func TestBuildDefinitionsAndByName(t *testing.T) {
	t.Parallel()

	idx := Build([]model.FileResult{
		{Path: "a.rs", ModulePath: "a", Functions: []model.FunctionRecord{fn("a", "run", "fn run() {}"), fn("a", "helper", "fn helper() {}")}},
		{Path: "b.rs", ModulePath: "b", Functions: []model.FunctionRecord{fn("b", "run", "fn run() { b }")}, Types: []model.TypeRecord{{Name: "B", Kind: model.Struct}}},
	})

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 1, idx.TypeCount())
	assert.Equal(t, []string{"helper", "run"}, idx.Names())
	assert.Equal(t, []string{"a::helper", "a::run", "b::run"}, idx.Qualified())

	assert.Equal(t, []Variant{
		{Qualified: "a::run", ModulePath: "a"},
		{Qualified: "b::run", ModulePath: "b"},
	}, idx.Variants("run"))
	assert.Nil(t, idx.Variants("missing"))

	rec, ok := idx.Lookup("b::run")
	require.True(t, ok)
	assert.Equal(t, "fn run() { b }", rec.Definition)

	_, ok = idx.Lookup("c::run")
	assert.False(t, ok)
}

func TestBuildCollisionLastWriterWins(t *testing.T) {
	t.Parallel()

	// src/net.rs and src/net/mod.rs both normalise to src::net.
	idx := Build([]model.FileResult{
		{Path: "src/net.rs", ModulePath: "src::net", Functions: []model.FunctionRecord{fn("src::net", "dial", "first")}},
		{Path: "src/net/mod.rs", ModulePath: "src::net", Functions: []model.FunctionRecord{fn("src::net", "dial", "second")}},
	})

	assert.Equal(t, 1, idx.Len())
	rec, ok := idx.Lookup("src::net::dial")
	require.True(t, ok)
	assert.Equal(t, "second", rec.Definition)
	assert.Equal(t, []Variant{
		{Qualified: "src::net::dial", ModulePath: "src::net"},
		{Qualified: "src::net::dial", ModulePath: "src::net"},
	}, idx.Variants("dial"))
}

func TestBuildDuplicateNamesInOneFile(t *testing.T) {
	t.Parallel()

	idx := Build([]model.FileResult{{
		Path:       "shapes.rs",
		ModulePath: "shapes",
		Functions: []model.FunctionRecord{
			fn("shapes", "new", "fn new() -> Circle"),
			fn("shapes", "new", "fn new() -> Square"),
		},
	}})

	rec, ok := idx.Lookup("shapes::new")
	require.True(t, ok)
	assert.Equal(t, "fn new() -> Square", rec.Definition)
	assert.Len(t, idx.Variants("new"), 2)
	assert.Equal(t, 1, idx.Len())
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	idx := Build(nil)
	assert.Zero(t, idx.Len())
	assert.Empty(t, idx.Names())
}
