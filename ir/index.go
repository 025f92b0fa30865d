package ir

import (
	"fmt"

	"github.com/grove-ir/grove/debug"
)

// buildIndices scans each indexed edge and classifies its elements by the
// schema key path. Called once per node, at construction.
func (n *Node) buildIndices() {
	if len(n.kind.Indices) == 0 {
		return
	}
	n.indices = make(map[string]map[string]*Node, len(n.kind.Indices))
	for i := range n.kind.Indices {
		idx := &n.kind.Indices[i]
		table := map[string]*Node{}
		if e := n.Edge(idx.Source); e != nil {
			for _, el := range e.elems {
				if key, ok := keyOf(el, idx.KeyPath); ok {
					table[key] = el
				}
			}
		}
		n.indices[idx.Name] = table
	}
}

// keyOf extracts an element's index key by walking the key path: every hop
// but the last is a single child reference, the last is a string scalar.
func keyOf(n *Node, path []string) (string, bool) {
	cur := n
	for i, seg := range path {
		if i == len(path)-1 {
			s, ok := cur.scalars[seg].(string)
			return s, ok
		}
		e := cur.Edge(seg)
		if e == nil || e.value == nil {
			return "", false
		}
		cur = e.value
	}
	return "", false
}

// keyOfProxy is keyOf reading through proxy overrides, so an element whose
// key field was written earlier in the same pass classifies under its
// current value.
func keyOfProxy(p *Proxy, path []string) (string, bool) {
	cur := p
	for i, seg := range path {
		if i == len(path)-1 {
			s, ok := cur.Scalar(seg).(string)
			return s, ok
		}
		ep := cur.Edge(seg)
		if ep == nil {
			return "", false
		}
		cur = ep.Value()
		if cur == nil {
			return "", false
		}
	}
	return "", false
}

// indexTable returns the proxy's writable table for the named index, cloning
// the wrapped node's table on first touch. Copy-on-write is at single-table
// granularity: untouched indices keep sharing the original map.
func (p *Proxy) indexTable(name string) map[string]*Node {
	if t, ok := p.indices[name]; ok {
		return t
	}
	src := p.node.indices[name]
	t := make(map[string]*Node, len(src)+1)
	for k, v := range src {
		t[k] = v
	}
	if p.indices == nil {
		p.indices = make(map[string]map[string]*Node, len(p.kind.Indices))
	}
	p.indices[name] = t
	return t
}

// addToParentIndices classifies a freshly inserted element into every index
// its holding edge feeds. Called by the edge proxy on insert.
func (c *Proxy) addToParentIndices(ep *EdgeProxy) {
	owner := ep.proxy
	for i := range owner.kind.Indices {
		idx := &owner.kind.Indices[i]
		if idx.Source != ep.prop.Name {
			continue
		}
		key, ok := keyOfProxy(c, idx.KeyPath)
		if !ok {
			continue
		}
		if debug.Index() {
			debug.Logf("index %s.%s += %q\n", owner.kind.Name, idx.Name, key)
		}
		owner.indexTable(idx.Name)[key] = c.node
	}
}

// removeFromParentIndices drops a removed element from every index its edge
// feeds. It first tries the key the element classifies under now; if the key
// field was renamed earlier in the pass the stale entry is found by value.
func (c *Proxy) removeFromParentIndices(ep *EdgeProxy) {
	owner := ep.proxy
	for i := range owner.kind.Indices {
		idx := &owner.kind.Indices[i]
		if idx.Source != ep.prop.Name {
			continue
		}
		t := owner.indexTable(idx.Name)
		if key, ok := keyOfProxy(c, idx.KeyPath); ok && t[key] == c.node {
			if debug.Index() {
				debug.Logf("index %s.%s -= %q\n", owner.kind.Name, idx.Name, key)
			}
			delete(t, key)
			continue
		}
		for k, v := range t {
			if v == c.node {
				delete(t, k)
				break
			}
		}
	}
}

// Lookup resolves a key in the named index, consulting the proxy's own table
// when the index was touched in this pass and the wrapped node's otherwise.
// The result is wrapped in a proxy, like every node observed inside a
// transformation.
func (p *Proxy) Lookup(index, key string) (*Proxy, error) {
	if p.kind.Index(index) == nil {
		return nil, fmt.Errorf("%s has no index %q", p.kind.Name, index)
	}
	t, ok := p.indices[index]
	if !ok {
		t = p.node.indices[index]
	}
	n, found := t[key]
	if !found {
		return nil, fmt.Errorf("%s.%s[%q]: %w", p.kind.Name, index, key, ErrKeyNotFound)
	}
	return p.sess.proxyOf(n), nil
}
