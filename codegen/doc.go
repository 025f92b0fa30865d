// Package codegen turns a resolved grove schema into Go source.
//
// The generated file declares one ir.Kind descriptor per concrete kind, a
// typed wrapper struct over *ir.Node and one over *ir.Proxy for each kind
// (constructors, scalar and child accessors, index lookups, mutators), an
// interface per abstract and variant type with a checked classifier, and
// ancestor accessors derived from the schema's containment graph. Output is
// deterministic and formatted with golang.org/x/tools/imports.
package codegen
