package schema

import "errors"

var (
	// ErrParse reports malformed schema source.
	ErrParse = errors.New("parse error")

	// ErrResolve reports a schema that parsed but does not hold together:
	// unknown references, duplicate names, inheritance cycles, bad indices.
	ErrResolve = errors.New("resolve error")
)

// Class classifies a declared type.
type Class int

const (
	// ClassNode is a concrete kind: it appears in trees.
	ClassNode Class = iota
	// ClassIntermediate is an abstract type, used only as a supertype.
	ClassIntermediate
	// ClassVariant is a closed union over declared types.
	ClassVariant
)

func (c Class) String() string {
	switch c {
	case ClassNode:
		return "node"
	case ClassIntermediate:
		return "intermediate"
	case ClassVariant:
		return "variant"
	}
	return "unknown"
}

// Pos is a line/column position in schema source, 1-based.
type Pos struct {
	Line int
	Col  int
}

// File is one parsed schema: a name and its declarations, unresolved.
type File struct {
	Name  string
	Decls []*TypeDecl
}

// TypeDecl is one declaration as written, before resolution.
type TypeDecl struct {
	Name    string
	Class   Class
	Super   string
	Props   []*PropDecl
	Indices []*IndexDecl
	Members []string
	Pos     Pos
}

// PropDecl is one property declaration. Type names either a builtin scalar or
// a declared type.
type PropDecl struct {
	Name     string
	Type     string
	IsArray  bool
	Nullable bool
	Pos      Pos
}

// IndexDecl declares a key -> element index over an array property.
type IndexDecl struct {
	Name    string
	Source  string
	KeyPath []string
	Pos     Pos
}
