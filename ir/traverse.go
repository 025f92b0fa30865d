package ir

import (
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/grove-ir/grove/debug"
)

// Order selects which callback invocations a walk performs. PreOrder and
// PostOrder may be combined; a node is then visited once on entry and once on
// exit.
type Order int

const (
	PreOrder Order = 1 << iota
	PostOrder
)

// Action is a pre-order callback's verdict on a node's subtree.
type Action int

const (
	// Continue descends into the node's children.
	Continue Action = iota
	// Skip prunes descent; the node's children are not visited. The exit
	// callback for the node itself still runs.
	Skip
)

// VisitFunc observes one node during a read-only walk. post is false on entry
// and true on exit.
type VisitFunc func(n *Node, post bool) (Action, error)

// TransformFunc observes one proxied node during a transformation.
type TransformFunc func(p *Proxy, post bool) (Action, error)

type visitFrame struct {
	node    *Node
	entered bool
}

// Traverse walks the tree rooted at root without any proxy or builder
// involvement, for analyzers and printers. The walk is iterative with an
// explicit stack, so depth is bounded by memory, not goroutine stack. The
// callback error aborts the walk.
func Traverse(root *Node, order Order, fn VisitFunc) error {
	st := arraystack.New()
	st.Push(&visitFrame{node: root})
	for {
		v, ok := st.Pop()
		if !ok {
			return nil
		}
		f := v.(*visitFrame)
		if !f.entered {
			skip := false
			if order&PreOrder != 0 {
				act, err := fn(f.node, false)
				if err != nil {
					return err
				}
				skip = act == Skip
			}
			f.entered = true
			st.Push(f)
			if !skip {
				children := nodeChildren(f.node)
				for i := len(children) - 1; i >= 0; i-- {
					st.Push(&visitFrame{node: children[i]})
				}
			}
			continue
		}
		if order&PostOrder != 0 {
			if _, err := fn(f.node, true); err != nil {
				return err
			}
		}
	}
}

func nodeChildren(n *Node) []*Node {
	var res []*Node
	for _, e := range n.edges {
		if e.prop.IsArray {
			res = append(res, e.elems...)
			continue
		}
		if e.value != nil {
			res = append(res, e.value)
		}
	}
	return res
}

type transformFrame struct {
	proxy   *Proxy
	entered bool
}

// Transform runs the same walk over proxies and reconciles the result: each
// visited node's proxy is materialized before the callback runs, reads and
// writes go through proxies, and the built root is returned. When no callback
// wrote anything the result is root itself, by reference. On error the
// session is discarded and no mutation is observable anywhere.
func Transform(root *Node, order Order, fn TransformFunc) (*Node, error) {
	sess := newSession()
	rp := sess.proxyOf(root)
	st := arraystack.New()
	st.Push(&transformFrame{proxy: rp})
	for {
		v, ok := st.Pop()
		if !ok {
			break
		}
		f := v.(*transformFrame)
		if !f.entered {
			skip := false
			if order&PreOrder != 0 {
				act, err := fn(f.proxy, false)
				if err != nil {
					return nil, err
				}
				skip = act == Skip
			}
			f.entered = true
			st.Push(f)
			if !skip {
				// Children are captured after the entry callback, so
				// elements it inserted are part of the walk.
				children := proxyChildren(f.proxy)
				for i := len(children) - 1; i >= 0; i-- {
					st.Push(&transformFrame{proxy: children[i]})
				}
			}
			continue
		}
		if order&PostOrder != 0 {
			if _, err := fn(f.proxy, true); err != nil {
				return nil, err
			}
		}
	}
	if debug.Transform() {
		debug.Logf("transform %s modified=%v\n", root.kind.Name, rp.modified)
	}
	return rp.build(), nil
}

func proxyChildren(p *Proxy) []*Proxy {
	var res []*Proxy
	for _, ep := range p.Edges() {
		if ep.IsArray() {
			res = append(res, ep.Elements()...)
			continue
		}
		if c := ep.Value(); c != nil {
			res = append(res, c)
		}
	}
	return res
}
