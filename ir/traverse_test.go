package ir

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildTraversalTree(k *astKinds) *Node {
	return k.prog(
		k.def("Foo", k.num("1")),
		k.def("Bar", k.num("2")),
	)
}

func TestTraverseOrders(t *testing.T) {
	k := newASTKinds()
	root := buildTraversalTree(k)

	label := func(n *Node) string {
		if s, ok := n.Scalar("name").(string); ok {
			return s
		}
		if s, ok := n.Scalar("value").(string); ok {
			return s
		}
		return n.Kind().Name
	}

	tests := []struct {
		name  string
		order Order
		want  []string
	}{
		{"pre", PreOrder, []string{"Program", "Foo", "1", "Bar", "2"}},
		{"post", PostOrder, []string{"1", "Foo", "2", "Bar", "Program"}},
		{"both", PreOrder | PostOrder, []string{
			"Program", "Foo", "1", "1", "Foo", "Bar", "2", "2", "Bar", "Program",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			err := Traverse(root, tt.order, func(n *Node, post bool) (Action, error) {
				got = append(got, label(n))
				return Continue, nil
			})
			if err != nil {
				t.Fatalf("Traverse err = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("visit order (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTraverseSkip(t *testing.T) {
	k := newASTKinds()
	root := buildTraversalTree(k)

	var kinds []string
	err := Traverse(root, PreOrder|PostOrder, func(n *Node, post bool) (Action, error) {
		if post {
			return Continue, nil
		}
		kinds = append(kinds, n.Kind().Name)
		if n.Kind() == k.definition {
			return Skip, nil
		}
		return Continue, nil
	})
	if err != nil {
		t.Fatalf("Traverse err = %v", err)
	}
	// definitions are entered but their bodies are pruned
	want := []string{"Program", "Definition", "Definition"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("pruned visit order (-want +got):\n%s", diff)
	}
}

func TestTraverseError(t *testing.T) {
	k := newASTKinds()
	root := buildTraversalTree(k)
	boom := errors.New("boom")

	seen := 0
	err := Traverse(root, PreOrder, func(n *Node, post bool) (Action, error) {
		seen++
		if seen == 2 {
			return Continue, boom
		}
		return Continue, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Traverse err = %v, want boom", err)
	}
	if seen != 2 {
		t.Errorf("callback ran %d times after error, want 2", seen)
	}
}

func TestTransformSkip(t *testing.T) {
	k := newASTKinds()
	root := buildTraversalTree(k)

	var visited []string
	_, err := Transform(root, PreOrder, func(p *Proxy, post bool) (Action, error) {
		visited = append(visited, p.Kind().Name)
		if p.Kind() == k.definition {
			return Skip, nil
		}
		return Continue, nil
	})
	if err != nil {
		t.Fatalf("Transform err = %v", err)
	}
	want := []string{"Program", "Definition", "Definition"}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Errorf("pruned transform order (-want +got):\n%s", diff)
	}
}

// Deep trees walk fine: the engine uses an explicit stack, not recursion.
func TestTraverseDeep(t *testing.T) {
	k := newDeepKinds()
	// a parent chain of single edges: decl -> ident is only one hop, so nest
	// modules via the array edge instead
	leaf := New(k.decl, New(k.ident, "x"), false)
	root := New(k.module, []*Node{leaf})
	for i := 0; i < 20000; i++ {
		root = New(k.module, []*Node{root})
	}
	count := 0
	err := Traverse(root, PostOrder, func(n *Node, post bool) (Action, error) {
		count++
		return Continue, nil
	})
	if err != nil {
		t.Fatalf("Traverse err = %v", err)
	}
	if count != 20003 {
		t.Errorf("visited %d nodes, want 20003", count)
	}
}
