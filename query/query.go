// Package query selects nodes from a tree with boolean predicate
// expressions.
//
// A predicate sees two variables: "kind", the node's kind name, and
// "fields", a map of the node's scalar properties. For example
//
//	kind == "Definition" && fields.name startsWith "parse"
//
// selects every definition whose name begins with "parse". Predicates are
// compiled once per Select call and evaluated against every node in
// pre-order.
package query

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/grove-ir/grove/ir"
)

// ErrQuery wraps predicate compile and evaluation failures.
var ErrQuery = errors.New("query")

// Compile parses a predicate for repeated use with Run.
func Compile(predicate string) (*vm.Program, error) {
	prog, err := expr.Compile(predicate,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: compile %q: %v", ErrQuery, predicate, err)
	}
	return prog, nil
}

// Run collects, in pre-order, every node under root matching the compiled
// predicate.
func Run(root *ir.Node, prog *vm.Program) ([]*ir.Node, error) {
	var res []*ir.Node
	err := ir.Traverse(root, ir.PreOrder, func(n *ir.Node, post bool) (ir.Action, error) {
		env := map[string]any{
			"kind":   n.Kind().Name,
			"fields": n.Scalars(),
		}
		out, err := expr.Run(prog, env)
		if err != nil {
			return ir.Continue, fmt.Errorf("%w: eval at %s: %v", ErrQuery, n.Kind().Name, err)
		}
		if out.(bool) {
			res = append(res, n)
		}
		return ir.Continue, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Select compiles predicate and runs it against root.
func Select(root *ir.Node, predicate string) ([]*ir.Node, error) {
	prog, err := Compile(predicate)
	if err != nil {
		return nil, err
	}
	return Run(root, prog)
}

// First returns the first node matching predicate in pre-order, or nil.
func First(root *ir.Node, predicate string) (*ir.Node, error) {
	ns, err := Select(root, predicate)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, nil
	}
	return ns[0], nil
}
