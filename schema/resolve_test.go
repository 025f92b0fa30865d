package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grove-ir/grove/ir"
)

func mustResolve(t *testing.T, src string) *Resolved {
	t.Helper()
	f, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse err = %v", err)
	}
	r, err := Resolve(f)
	if err != nil {
		t.Fatalf("Resolve err = %v", err)
	}
	return r
}

func TestResolveExample(t *testing.T) {
	r := mustResolve(t, exampleSchema)

	var kindNames []string
	for _, k := range r.Kinds() {
		kindNames = append(kindNames, k.Name)
	}
	want := []string{"NumberLiteral", "Definition", "Program"}
	if diff := cmp.Diff(want, kindNames); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}

	expr := r.TypeNamed("Expr")
	if expr.Class != ClassIntermediate {
		t.Errorf("Expr class = %v", expr.Class)
	}
	if expr.Kind != nil {
		t.Errorf("intermediate types mint no kind")
	}
	num := r.TypeNamed("NumberLiteral")
	if num.Super != expr {
		t.Errorf("NumberLiteral super = %v", num.Super)
	}

	prog := r.TypeNamed("Program").Kind
	p := prog.Property("definitions")
	if p == nil || !p.IsNode || !p.IsArray {
		t.Errorf("definitions property = %+v", p)
	}
	idx := prog.Index("DefinitionByName")
	if idx == nil || idx.Source != "definitions" {
		t.Fatalf("index = %+v", idx)
	}
	if diff := cmp.Diff([]string{"name"}, idx.KeyPath); diff != "" {
		t.Errorf("key path (-want +got):\n%s", diff)
	}
}

// Resolved descriptors drive the engine directly.
func TestResolvedKindsBuildTrees(t *testing.T) {
	r := mustResolve(t, exampleSchema)
	numK := r.TypeNamed("NumberLiteral").Kind
	defK := r.TypeNamed("Definition").Kind
	progK := r.TypeNamed("Program").Kind

	root := ir.New(progK, []*ir.Node{
		ir.New(defK, "Foo", ir.New(numK, "1")),
	})
	got, err := root.Lookup("DefinitionByName", "Foo")
	if err != nil {
		t.Fatalf("Lookup err = %v", err)
	}
	if got.Scalar("name") != "Foo" {
		t.Errorf("resolved %v", got.Scalar("name"))
	}
}

func TestInheritanceFlattening(t *testing.T) {
	r := mustResolve(t, `
schema s
abstract Base {
    id: string
}
abstract Mid : Base {
    note: string?  // nullable scalar is just a scalar that may be nil
}
node Leaf : Mid {
    extra: int
}
`)
	leaf := r.TypeNamed("Leaf")
	var names []string
	for _, p := range leaf.Props {
		names = append(names, p.Name)
	}
	// inherited first, supertype-first
	if diff := cmp.Diff([]string{"id", "note", "extra"}, names); diff != "" {
		t.Errorf("flattened props (-want +got):\n%s", diff)
	}
}

func TestConcretes(t *testing.T) {
	r := mustResolve(t, `
schema s
abstract Expr
node Num : Expr { value: string }
node Str : Expr { value: string }
node Call { callee: string }
variant Any = Expr | Call
`)
	var names []string
	for _, c := range r.Concretes(r.TypeNamed("Any")) {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"Num", "Str", "Call"}, names); diff != "" {
		t.Errorf("concretes (-want +got):\n%s", diff)
	}
}

// An index over an abstract element type must resolve its key path for every
// concrete member.
func TestIndexOverAbstractElements(t *testing.T) {
	src := `
schema s
abstract Decl
node FuncDecl : Decl {
    name: string
    arity: int
}
node VarDecl : Decl {
    name: string
    mutable: bool
}
node File {
    decls: []Decl
    index DeclByName on decls key name
}
`
	r := mustResolve(t, src)
	file := r.TypeNamed("File").Kind
	if file.Index("DeclByName") == nil {
		t.Fatal("index not minted")
	}

	// a member that stays in the closure but lacks the key field breaks
	// the index
	broken := strings.Replace(src, "name: string\n    mutable: bool",
		"mutable: bool", 1)
	f, err := Parse(broken)
	if err != nil {
		t.Fatalf("Parse err = %v", err)
	}
	if _, err := Resolve(f); !errors.Is(err, ErrResolve) {
		t.Errorf("Resolve err = %v, want ErrResolve", err)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"duplicate", "schema s\nnode A { x: string }\nnode A { y: string }"},
		{"undefined super", "schema s\nnode A : Ghost { x: string }"},
		{"node super", "schema s\nnode A { x: string }\nnode B : A { y: string }"},
		{"undefined prop type", "schema s\nnode A { x: Ghost }"},
		{"undefined member", "schema s\nvariant V = Ghost"},
		{"builtin shadow", "schema s\nnode string { x: int }"},
		{"prop collision", "schema s\nabstract B { x: string }\nnode A : B { x: string }"},
		{"reserved kind prop", "schema s\nnode A { kind: string }"},
		{"reserved kind node prop", "schema s\nnode B { x: string }\nnode A { kind: B }"},
		{"scalar array", "schema s\nnode A { xs: []string }"},
		{"index unknown source", "schema s\nnode A { x: string\nindex I on xs key name }"},
		{"index non-array source", "schema s\nnode B { name: string }\nnode A { b: B\nindex I on b key name }"},
		{"index missing key", "schema s\nnode B { v: int }\nnode A { bs: []B\nindex I on bs key name }"},
		{"index non-string key", "schema s\nnode B { name: int }\nnode A { bs: []B\nindex I on bs key name }"},
		{"index array hop", "schema s\nnode C { name: string }\nnode B { cs: []C }\nnode A { bs: []B\nindex I on bs key cs.name }"},
		{"variant with body", "schema s\nnode A { x: string }\nvariant V = A\nnode V { y: int }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.src)
			if err != nil {
				// some cases fail at parse; that is fine as long as they fail
				if !errors.Is(err, ErrParse) {
					t.Errorf("Parse err = %v", err)
				}
				return
			}
			if _, err := Resolve(f); !errors.Is(err, ErrResolve) {
				t.Errorf("Resolve err = %v, want ErrResolve", err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	src := []byte(`
schema: ast
types:
  - name: Expr
    kind: abstract
  - name: NumberLiteral
    kind: node
    super: Expr
    properties:
      - {name: value, type: string}
  - name: Definition
    kind: node
    properties:
      - {name: name, type: string}
      - {name: body, type: Expr, nullable: true}
  - name: Program
    kind: node
    properties:
      - {name: definitions, type: Definition, array: true}
    indices:
      - {name: DefinitionByName, on: definitions, key: name}
`)
	f, err := ParseYAML(src)
	if err != nil {
		t.Fatalf("ParseYAML err = %v", err)
	}
	r, err := Resolve(f)
	if err != nil {
		t.Fatalf("Resolve err = %v", err)
	}
	var kindNames []string
	for _, k := range r.Kinds() {
		kindNames = append(kindNames, k.Name)
	}
	want := []string{"NumberLiteral", "Definition", "Program"}
	if diff := cmp.Diff(want, kindNames); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no name", "types: []"},
		{"bad kind", "schema: s\ntypes:\n  - {name: A, kind: struct}"},
		{"missing key", "schema: s\ntypes:\n  - name: A\n    indices:\n      - {name: I, on: xs}"},
		{"not yaml", ":\n -"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tt.src)); !errors.Is(err, ErrParse) {
				t.Errorf("ParseYAML err = %v, want ErrParse", err)
			}
		})
	}
}
