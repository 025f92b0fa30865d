// Package schema parses and resolves grove schema declarations.
//
// A schema names a family of tree node kinds and is written in a small
// declaration language:
//
//	schema ast
//
//	abstract Expr
//
//	node NumberLiteral : Expr {
//	    value: string
//	}
//
//	node Definition {
//	    name: string
//	    body: Expr?
//	}
//
//	node Program {
//	    definitions: []Definition
//	    index DefinitionByName on definitions key name
//	}
//
//	variant Decl = Definition | Program
//
// Declarations come in three classes. A node declares a concrete kind with
// properties: scalars (string, int, float, bool) or references to other
// declared types, single or array valued ([]T), nullable when the type is
// suffixed with ?. An abstract declares an intermediate type that only exists
// as a supertype; its properties are inherited by subtypes. A variant is a
// closed union over previously declared types.
//
// An index declaration inside a node gives the kind a key -> element lookup
// over one of its array properties; the key clause is a dotted path walked
// from each element through single references to a string scalar.
//
// Parse turns source text into a declaration File; Resolve checks symbols,
// inheritance and indices and produces ir.Kind descriptors for every concrete
// kind. ParseYAML accepts the same declarations as a YAML document.
package schema
