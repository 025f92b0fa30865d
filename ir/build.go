package ir

import (
	"github.com/grove-ir/grove/debug"
)

// build reconciles a proxy subtree into an immutable node, bottom-up. An
// unmodified proxy releases its slot and returns the wrapped node unchanged,
// which is what keeps sharing maximal: whole untouched subtrees come back by
// reference. A modified proxy rebuilds each possibly-overridden child, then
// constructs a fresh node of the same kind, which re-derives its index tables
// and threads itself in as the parent of every (rebuilt or reused) child.
func (p *Proxy) build() *Node {
	if !p.modified {
		delete(p.sess.proxies, p.node)
		return p.node
	}
	if debug.Build() {
		debug.Logf("rebuild %s\n", p.kind.Name)
	}
	fields := make([]any, len(p.kind.Properties))
	for i := range p.kind.Properties {
		prop := &p.kind.Properties[i]
		if !prop.IsNode {
			if v, ok := p.scalars[prop.Name]; ok {
				fields[i] = v
			} else {
				fields[i] = p.node.Scalar(prop.Name)
			}
			continue
		}
		fields[i] = p.buildEdge(prop)
	}
	delete(p.sess.proxies, p.node)
	nn := New(p.kind, fields...)
	nn.span = p.node.span
	nn.origin = p.node
	return nn
}

// buildEdge produces the constructor field for one child-reference property:
// []*Node for array properties, *Node or nil for single ones. Untouched edges
// still ask proxied children to build themselves, so an edit deep below an
// otherwise untouched edge is picked up.
func (p *Proxy) buildEdge(prop *Property) any {
	ep := p.edges[prop.Name]
	if prop.IsArray {
		if ep != nil && ep.touched {
			elems := make([]*Node, len(ep.elems))
			for i, c := range ep.elems {
				elems[i] = c.build()
			}
			return elems
		}
		e := p.node.Edge(prop.Name)
		elems := make([]*Node, 0, e.Count())
		for el := range e.Elements() {
			elems = append(elems, p.sess.buildNode(el))
		}
		return elems
	}
	if ep != nil && ep.valueSet {
		if ep.value == nil {
			return (*Node)(nil)
		}
		return ep.value.build()
	}
	if v := p.node.Edge(prop.Name).Value(); v != nil {
		return p.sess.buildNode(v)
	}
	return (*Node)(nil)
}

// buildNode builds through a node's live proxy if it has one, else reuses the
// node as-is.
func (s *session) buildNode(n *Node) *Node {
	if p, ok := s.proxies[n]; ok {
		return p.build()
	}
	return n
}
