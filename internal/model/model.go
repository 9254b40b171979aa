// Package model defines core data structures for fnctx.
package model

// QualifiedSep joins a module path and a bare function name.
const QualifiedSep = "::"

// TypeKind indicates the declaration keyword of a recorded type.
type TypeKind string

const (
	Struct TypeKind = "struct"
	Enum   TypeKind = "enum"
	Alias  TypeKind = "type"
	Trait  TypeKind = "trait"
)

// FunctionRecord describes one discovered function definition.
type FunctionRecord struct {
	Name       string
	Path       string
	ModulePath string
	Definition string
	Line       int

	// Calls holds the raw bare names referenced as calls inside the body.
	Calls map[string]struct{}
}

// QualifiedName returns ModulePath + "::" + Name.
func (r *FunctionRecord) QualifiedName() string {
	return Qualify(r.ModulePath, r.Name)
}

// TypeRecord describes a declared struct, enum, type alias or trait.
// Type names are collected but not yet consumed by call resolution.
type TypeRecord struct {
	Name string
	Kind TypeKind
	Line int
}

// FileResult holds everything extracted from a single source file.
type FileResult struct {
	Path       string
	ModulePath string
	Functions  []FunctionRecord
	Types      []TypeRecord
}

// Qualify builds a qualified name from a module path and a bare name.
func Qualify(modulePath, name string) string {
	return modulePath + QualifiedSep + name
}
