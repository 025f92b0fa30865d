package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const exampleSchema = `
schema ast

// expressions
abstract Expr

node NumberLiteral : Expr {
    value: string
}

node Definition {
    name: string
    body: Expr?
}

node Program {
    definitions: []Definition
    index DefinitionByName on definitions key name
}

variant Decl = Definition | Program
`

func TestParseExample(t *testing.T) {
	f, err := Parse(exampleSchema)
	if err != nil {
		t.Fatalf("Parse err = %v", err)
	}
	if f.Name != "ast" {
		t.Errorf("schema name = %q, want ast", f.Name)
	}
	var names []string
	var classes []Class
	for _, d := range f.Decls {
		names = append(names, d.Name)
		classes = append(classes, d.Class)
	}
	wantNames := []string{"Expr", "NumberLiteral", "Definition", "Program", "Decl"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Errorf("decl names (-want +got):\n%s", diff)
	}
	wantClasses := []Class{
		ClassIntermediate, ClassNode, ClassNode, ClassNode, ClassVariant,
	}
	if diff := cmp.Diff(wantClasses, classes); diff != "" {
		t.Errorf("decl classes (-want +got):\n%s", diff)
	}
}

func TestParseDetails(t *testing.T) {
	f, err := Parse(exampleSchema)
	if err != nil {
		t.Fatalf("Parse err = %v", err)
	}
	def := f.Decls[2]
	if len(def.Props) != 2 {
		t.Fatalf("Definition has %d props", len(def.Props))
	}
	body := def.Props[1]
	if body.Name != "body" || body.Type != "Expr" || !body.Nullable || body.IsArray {
		t.Errorf("body prop = %+v", body)
	}
	num := f.Decls[1]
	if num.Super != "Expr" {
		t.Errorf("NumberLiteral super = %q", num.Super)
	}
	prog := f.Decls[3]
	if len(prog.Indices) != 1 {
		t.Fatalf("Program has %d indices", len(prog.Indices))
	}
	idx := prog.Indices[0]
	if idx.Name != "DefinitionByName" || idx.Source != "definitions" {
		t.Errorf("index = %+v", idx)
	}
	if diff := cmp.Diff([]string{"name"}, idx.KeyPath); diff != "" {
		t.Errorf("key path (-want +got):\n%s", diff)
	}
	dec := f.Decls[4]
	if diff := cmp.Diff([]string{"Definition", "Program"}, dec.Members); diff != "" {
		t.Errorf("variant members (-want +got):\n%s", diff)
	}
}

func TestParseDottedKeyPath(t *testing.T) {
	f, err := Parse(`
schema deep
node Ident { text: string }
node Decl { ident: Ident }
node Module {
    decls: []Decl
    index DeclByIdent on decls key ident.text
}
`)
	if err != nil {
		t.Fatalf("Parse err = %v", err)
	}
	idx := f.Decls[2].Indices[0]
	if diff := cmp.Diff([]string{"ident", "text"}, idx.KeyPath); diff != "" {
		t.Errorf("key path (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"no name", "schema"},
		{"missing header", "node A { x: string }"},
		{"unterminated body", "schema s\nnode A { x: string"},
		{"bad member", "schema s\nnode A { index }"},
		{"nullable array", "schema s\nnode A { xs: []B? }\nnode B { x: string }"},
		{"stray token", "schema s\nnode A : { }"},
		{"bad rune", "schema s\nnode A { x: string } @"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.src); !errors.Is(err, ErrParse) {
				t.Errorf("Parse(%q) err = %v, want ErrParse", tt.src, err)
			}
		})
	}
}

func TestParseOptionalCommas(t *testing.T) {
	f, err := Parse(`
schema s
node A { x: string, y: int, z: bool }
`)
	if err != nil {
		t.Fatalf("Parse err = %v", err)
	}
	if len(f.Decls[0].Props) != 3 {
		t.Errorf("got %d props, want 3", len(f.Decls[0].Props))
	}
}
