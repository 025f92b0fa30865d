package ir

import (
	"fmt"
	"iter"
)

// Span is a half-open byte range into whatever source text a node was derived
// from. The engine only carries it along; it never interprets it.
type Span struct {
	Start int
	End   int
}

// Node is one immutable tree position. Its scalar properties and children are
// fixed at construction; all apparent mutation happens on a Proxy during a
// Transform. The parent back-reference is bookkeeping, not content: the
// builder re-points it when a reused subtree is threaded under a freshly
// rebuilt parent.
type Node struct {
	kind       *Kind
	scalars    map[string]any
	edges      []*Edge
	parentEdge *Edge
	indices    map[string]map[string]*Node
	span       Span
	origin     *Node
}

// Edge is the sole channel from a parent node to its child or children: a
// single slot for non-array properties, an ordered sequence for array ones.
// Every non-nil child's parent edge points at exactly the edge currently
// holding it; attaching one node under two edges at once is undefined
// behavior, left to callers.
type Edge struct {
	node  *Node
	prop  *Property
	value *Node
	elems []*Node
}

// New constructs a node of the given kind. Field values appear in schema
// property order: scalars as-is, single child references as *Node (possibly
// nil), array ones as []*Node. Child parent edges are set unconditionally and
// the kind's index tables are built by scanning the indexed edges. Arity or
// type mismatches are programming errors and panic; generated constructors
// make them unrepresentable.
func New(kind *Kind, fields ...any) *Node {
	if len(fields) != len(kind.Properties) {
		panic(fmt.Sprintf("ir.New %s: got %d fields, schema declares %d",
			kind.Name, len(fields), len(kind.Properties)))
	}
	n := &Node{kind: kind}
	for i := range kind.Properties {
		prop := &kind.Properties[i]
		if !prop.IsNode {
			if n.scalars == nil {
				n.scalars = make(map[string]any, len(kind.Properties))
			}
			n.scalars[prop.Name] = fields[i]
			continue
		}
		e := &Edge{node: n, prop: prop}
		switch v := fields[i].(type) {
		case nil:
		case *Node:
			if prop.IsArray {
				panic(fmt.Sprintf("ir.New %s.%s: single node for array property",
					kind.Name, prop.Name))
			}
			if v != nil {
				e.value = v
				v.parentEdge = e
			}
		case []*Node:
			if !prop.IsArray {
				panic(fmt.Sprintf("ir.New %s.%s: node slice for single property",
					kind.Name, prop.Name))
			}
			e.elems = make([]*Node, len(v))
			copy(e.elems, v)
			for _, c := range e.elems {
				c.parentEdge = e
			}
		default:
			panic(fmt.Sprintf("ir.New %s.%s: unsupported child value %T",
				kind.Name, prop.Name, fields[i]))
		}
		n.edges = append(n.edges, e)
	}
	n.buildIndices()
	return n
}

// WithSpan attaches a source span and returns the node for chaining.
func (n *Node) WithSpan(sp Span) *Node {
	n.span = sp
	return n
}

// WithOrigin records the node this one was derived from and returns the node
// for chaining. The builder sets it automatically on rebuilt nodes.
func (n *Node) WithOrigin(o *Node) *Node {
	n.origin = o
	return n
}

func (n *Node) Kind() *Kind { return n.kind }
func (n *Node) Span() Span  { return n.span }

// Origin returns the node this one was rebuilt from, or nil.
func (n *Node) Origin() *Node { return n.origin }

// Scalar returns the value of the named scalar property, nil if the kind does
// not declare it.
func (n *Node) Scalar(name string) any {
	return n.scalars[name]
}

// Scalars returns a copy of the node's scalar properties.
func (n *Node) Scalars() map[string]any {
	res := make(map[string]any, len(n.scalars))
	for k, v := range n.scalars {
		res[k] = v
	}
	return res
}

// Edge returns the edge for the named child-reference property, or nil.
func (n *Node) Edge(name string) *Edge {
	for _, e := range n.edges {
		if e.prop.Name == name {
			return e
		}
	}
	return nil
}

// Edges returns the node's edges in schema property order. The slice is
// shared; callers must treat it as read-only.
func (n *Node) Edges() []*Edge {
	return n.edges
}

// ParentEdge returns the edge currently holding this node, nil at the root.
func (n *Node) ParentEdge() *Edge {
	return n.parentEdge
}

// Parent returns the owning node of the parent edge, nil at the root.
func (n *Node) Parent() *Node {
	if n.parentEdge == nil {
		return nil
	}
	return n.parentEdge.node
}

// ParentOfKind walks parents until a node of the given kind is found. It
// returns nil when the root is reached without a match.
func (n *Node) ParentOfKind(k *Kind) *Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.kind == k {
			return p
		}
	}
	return nil
}

// Root walks parents to the top of the tree.
func (n *Node) Root() *Node {
	res := n
	for res.Parent() != nil {
		res = res.Parent()
	}
	return res
}

// Lookup resolves a key in the named index. An absent key fails with
// ErrKeyNotFound; an index the kind does not declare is an error as well.
func (n *Node) Lookup(index, key string) (*Node, error) {
	t, ok := n.indices[index]
	if !ok {
		return nil, fmt.Errorf("%s has no index %q", n.kind.Name, index)
	}
	res, ok := t[key]
	if !ok {
		return nil, fmt.Errorf("%s.%s[%q]: %w", n.kind.Name, index, key, ErrKeyNotFound)
	}
	return res, nil
}

// Node returns the owner of the edge.
func (e *Edge) Node() *Node { return e.node }

func (e *Edge) Name() string  { return e.prop.Name }
func (e *Edge) IsArray() bool { return e.prop.IsArray }

// Value returns the single child, nil when empty. It is meaningless on array
// edges.
func (e *Edge) Value() *Node { return e.value }

// IsEmpty reports whether the edge holds no child at all.
func (e *Edge) IsEmpty() bool {
	if e.prop.IsArray {
		return len(e.elems) == 0
	}
	return e.value == nil
}

// Count returns the number of elements of an array edge.
func (e *Edge) Count() int { return len(e.elems) }

// At returns the i-th element of an array edge, failing with ErrOutOfRange
// outside [0, Count).
func (e *Edge) At(i int) (*Node, error) {
	if i < 0 || i >= len(e.elems) {
		return nil, fmt.Errorf("%s.%s[%d] of %d: %w",
			e.node.kind.Name, e.prop.Name, i, len(e.elems), ErrOutOfRange)
	}
	return e.elems[i], nil
}

// Elements iterates the elements of an array edge in order.
func (e *Edge) Elements() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, el := range e.elems {
			if !yield(el) {
				return
			}
		}
	}
}

// removable reports whether clearing the edge's single slot is allowed.
func (e *Edge) removable() bool {
	return e.prop.Nullable
}
