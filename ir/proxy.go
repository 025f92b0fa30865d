package ir

import (
	"fmt"
	"slices"
)

// session is the mutable state of one transformation: the set of live
// proxies, keyed by the node they wrap. Keeping the slot here rather than on
// the Node lets independent transformations proxy the same immutable root
// concurrently without sharing anything mutable. Building a proxy clears its
// slot so the node can be proxied again by a later pass.
type session struct {
	proxies map[*Node]*Proxy
}

func newSession() *session {
	return &session{proxies: map[*Node]*Proxy{}}
}

// proxyOf returns the live proxy for a node, materializing one on first
// access. At most one proxy per node exists within a session.
func (s *session) proxyOf(n *Node) *Proxy {
	if p, ok := s.proxies[n]; ok {
		return p
	}
	p := &Proxy{sess: s, node: n, kind: n.kind}
	s.proxies[n] = p
	return p
}

// Proxy is a mutable overlay over one Node, scoped to one transformation.
// Reads delegate to the wrapped node until a write shadows a scalar, an edge
// or an index table locally. The modified flag is monotonic and propagates to
// the root on every write, so the builder knows exactly which nodes to
// reconstruct without rescanning content.
type Proxy struct {
	sess     *session
	node     *Node
	kind     *Kind
	parent   *Proxy
	parentEP *EdgeProxy
	scalars  map[string]any
	edges    map[string]*EdgeProxy
	indices  map[string]map[string]*Node
	modified bool
}

// EdgeProxy overlays one edge of a proxied node. A single-slot override is a
// (value, set) pair; an array override materializes the element list as
// proxies on first touch and edits that.
type EdgeProxy struct {
	proxy    *Proxy
	prop     *Property
	edge     *Edge
	value    *Proxy
	valueSet bool
	elems    []*Proxy
	touched  bool
}

func (p *Proxy) Kind() *Kind { return p.kind }

// Node returns the wrapped immutable node.
func (p *Proxy) Node() *Node { return p.node }

// IsModified reports whether this proxy or any proxied descendant has been
// written in this transformation.
func (p *Proxy) IsModified() bool { return p.modified }

// markModified flags the proxy and all its ancestors up to the root. The walk
// stops at the first already-modified ancestor; everything above it is
// flagged already.
func (p *Proxy) markModified() {
	for q := p; q != nil && !q.modified; q = q.Parent() {
		q.modified = true
	}
}

// Scalar returns the local override if one was written, else the wrapped
// node's value.
func (p *Proxy) Scalar(name string) any {
	if v, ok := p.scalars[name]; ok {
		return v
	}
	return p.node.Scalar(name)
}

// SetScalar shadows a scalar property locally and marks the path to the root
// modified.
func (p *Proxy) SetScalar(name string, v any) {
	prop := p.kind.Property(name)
	if prop == nil || prop.IsNode {
		panic(fmt.Sprintf("ir: %s has no scalar property %q", p.kind.Name, name))
	}
	if p.scalars == nil {
		p.scalars = make(map[string]any, len(p.kind.Properties))
	}
	p.scalars[name] = v
	p.markModified()
}

// Edge returns the proxy for the named child-reference property,
// materializing it on first access, or nil for unknown / scalar properties.
func (p *Proxy) Edge(name string) *EdgeProxy {
	if ep, ok := p.edges[name]; ok {
		return ep
	}
	prop := p.kind.Property(name)
	if prop == nil || !prop.IsNode {
		return nil
	}
	ep := &EdgeProxy{proxy: p, prop: prop, edge: p.node.Edge(name)}
	if p.edges == nil {
		p.edges = make(map[string]*EdgeProxy, len(p.kind.Properties))
	}
	p.edges[name] = ep
	return ep
}

// Edges returns edge proxies in schema property order.
func (p *Proxy) Edges() []*EdgeProxy {
	var res []*EdgeProxy
	for i := range p.kind.Properties {
		prop := &p.kind.Properties[i]
		if prop.IsNode {
			res = append(res, p.Edge(prop.Name))
		}
	}
	return res
}

// Parent returns the proxy of the parent node, wrapping it lazily, or nil at
// the root. For elements attached during this pass the parent was recorded at
// attachment time.
func (p *Proxy) Parent() *Proxy {
	if p.parent != nil {
		return p.parent
	}
	np := p.node.Parent()
	if np == nil {
		return nil
	}
	par := p.sess.proxyOf(np)
	p.parent = par
	return par
}

// ParentOfKind walks parent proxies until a proxy of the given kind is found,
// nil when the root is reached without a match.
func (p *Proxy) ParentOfKind(k *Kind) *Proxy {
	for q := p.Parent(); q != nil; q = q.Parent() {
		if q.kind == k {
			return q
		}
	}
	return nil
}

// parentEdge locates the edge proxy currently holding this element,
// materializing it through the parent proxy when it was not touched yet. Nil
// at the root or after the element was removed.
func (p *Proxy) parentEdge() *EdgeProxy {
	if p.parentEP != nil {
		return p.parentEP
	}
	if p.node.parentEdge == nil {
		return nil
	}
	par := p.Parent()
	ep := par.Edge(p.node.parentEdge.Name())
	if ep.IsArray() {
		ep.materialize()
	} else {
		ep.Value()
	}
	return p.parentEP
}

// Remove detaches this element from its holding edge: a nullable single slot
// is cleared, an array element is deleted from the sequence and dropped from
// the indices it feeds. Removal from a non-nullable single edge fails with
// ErrNotRemovable; a detached or root element fails with ErrRootRemoval.
func (p *Proxy) Remove() error {
	ep := p.parentEdge()
	if ep == nil {
		return fmt.Errorf("%s: %w", p.kind.Name, ErrRootRemoval)
	}
	if !ep.IsArray() {
		return ep.Remove()
	}
	ep.materialize()
	i := slices.Index(ep.elems, p)
	if i < 0 {
		return fmt.Errorf("%s not under %s.%s: %w",
			p.kind.Name, ep.proxy.kind.Name, ep.prop.Name, errInternal)
	}
	ep.elems = slices.Delete(ep.elems, i, i+1)
	p.removeFromParentIndices(ep)
	p.parent, p.parentEP = nil, nil
	ep.proxy.markModified()
	return nil
}

func (e *EdgeProxy) Name() string  { return e.prop.Name }
func (e *EdgeProxy) IsArray() bool { return e.prop.IsArray }

// Proxy returns the owner of the edge.
func (e *EdgeProxy) Proxy() *Proxy { return e.proxy }

// adopt wires a child proxy under this edge.
func (e *EdgeProxy) adopt(c *Proxy) *Proxy {
	c.parent = e.proxy
	c.parentEP = e
	return c
}

// Value returns the single child as a proxy, nil when empty.
func (e *EdgeProxy) Value() *Proxy {
	if e.valueSet {
		return e.value
	}
	v := e.edge.Value()
	if v == nil {
		return nil
	}
	return e.adopt(e.proxy.sess.proxyOf(v))
}

// SetValue shadows the single slot with a new child, or clears it when n is
// nil and the slot is nullable.
func (e *EdgeProxy) SetValue(n *Node) error {
	if e.IsArray() {
		return fmt.Errorf("%s.%s is an array edge: %w",
			e.proxy.kind.Name, e.prop.Name, errInternal)
	}
	if n == nil {
		return e.Remove()
	}
	if old := e.Value(); old != nil {
		old.parent, old.parentEP = nil, nil
	}
	e.value = e.adopt(e.proxy.sess.proxyOf(n))
	e.valueSet = true
	e.proxy.markModified()
	return nil
}

// Remove clears a nullable single slot. Non-nullable slots and whole array
// edges fail with ErrNotRemovable.
func (e *EdgeProxy) Remove() error {
	if e.IsArray() || !e.edge.removable() {
		return fmt.Errorf("%s.%s: %w", e.proxy.kind.Name, e.prop.Name, ErrNotRemovable)
	}
	if old := e.Value(); old != nil {
		old.parent, old.parentEP = nil, nil
	}
	e.value, e.valueSet = nil, true
	e.proxy.markModified()
	return nil
}

// IsEmpty reports whether the edge currently holds no child.
func (e *EdgeProxy) IsEmpty() bool {
	if e.IsArray() {
		return e.Count() == 0
	}
	return e.Value() == nil
}

// materialize switches an array edge to its local element list, wrapping the
// original elements in proxies.
func (e *EdgeProxy) materialize() {
	if e.touched {
		return
	}
	e.elems = make([]*Proxy, 0, e.edge.Count())
	for el := range e.edge.Elements() {
		e.elems = append(e.elems, e.adopt(e.proxy.sess.proxyOf(el)))
	}
	e.touched = true
}

// Count returns the current number of elements, reflecting edits made in this
// pass.
func (e *EdgeProxy) Count() int {
	if e.touched {
		return len(e.elems)
	}
	return e.edge.Count()
}

// At returns the i-th element as a proxy, failing with ErrOutOfRange outside
// [0, Count).
func (e *EdgeProxy) At(i int) (*Proxy, error) {
	if e.touched {
		if i < 0 || i >= len(e.elems) {
			return nil, fmt.Errorf("%s.%s[%d] of %d: %w",
				e.proxy.kind.Name, e.prop.Name, i, len(e.elems), ErrOutOfRange)
		}
		return e.elems[i], nil
	}
	el, err := e.edge.At(i)
	if err != nil {
		return nil, err
	}
	return e.adopt(e.proxy.sess.proxyOf(el)), nil
}

// Append adds an element at the end of an array edge.
func (e *EdgeProxy) Append(n *Node) {
	e.insert(e.Count(), n)
}

// Prepend adds an element at the front of an array edge.
func (e *EdgeProxy) Prepend(n *Node) {
	e.insert(0, n)
}

// Insert adds an element at position i, failing with ErrOutOfRange outside
// [0, Count].
func (e *EdgeProxy) Insert(i int, n *Node) error {
	if i < 0 || i > e.Count() {
		return fmt.Errorf("%s.%s[%d] of %d: %w",
			e.proxy.kind.Name, e.prop.Name, i, e.Count(), ErrOutOfRange)
	}
	e.insert(i, n)
	return nil
}

func (e *EdgeProxy) insert(i int, n *Node) {
	if !e.IsArray() {
		panic(fmt.Sprintf("ir: %s.%s is not an array edge", e.proxy.kind.Name, e.prop.Name))
	}
	e.materialize()
	c := e.adopt(e.proxy.sess.proxyOf(n))
	e.elems = slices.Insert(e.elems, i, c)
	c.addToParentIndices(e)
	e.proxy.markModified()
}

// Elements iterates the current elements as proxies.
func (e *EdgeProxy) Elements() []*Proxy {
	if e.touched {
		return slices.Clone(e.elems)
	}
	res := make([]*Proxy, 0, e.edge.Count())
	for el := range e.edge.Elements() {
		res = append(res, e.adopt(e.proxy.sess.proxyOf(el)))
	}
	return res
}
