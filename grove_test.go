package grove

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grove-ir/grove/ir"
)

const dslSchema = `
schema ast

node Definition {
	name: string
}

node Program {
	definitions: []Definition
	index DefinitionByName on definitions key name
}
`

const yamlSchema = `
schema: ast
types:
  - name: Definition
    kind: node
    properties:
      - {name: name, type: string}
  - name: Program
    kind: node
    properties:
      - {name: definitions, type: Definition, array: true}
    indices:
      - {name: DefinitionByName, on: definitions, key: name}
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSchemaDSL(t *testing.T) {
	r, err := LoadSchema(writeFile(t, "ast.grove", dslSchema))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Kinds()) != 2 {
		t.Errorf("got %d kinds, want 2", len(r.Kinds()))
	}
}

func TestLoadSchemaYAML(t *testing.T) {
	a, err := LoadSchema(writeFile(t, "ast.grove", dslSchema))
	if err != nil {
		t.Fatal(err)
	}
	b, err := LoadSchema(writeFile(t, "ast.yaml", yamlSchema))
	if err != nil {
		t.Fatal(err)
	}
	var an, bn []string
	for _, k := range a.Kinds() {
		an = append(an, k.Name)
	}
	for _, k := range b.Kinds() {
		bn = append(bn, k.Name)
	}
	if d := cmp.Diff(an, bn); d != "" {
		t.Errorf("YAML form resolves differently (-dsl +yaml):\n%s", d)
	}
}

func TestLoadSchemaMissing(t *testing.T) {
	if _, err := LoadSchema(filepath.Join(t.TempDir(), "nope.grove")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDiff(t *testing.T) {
	r, err := LoadSchema(writeFile(t, "ast.grove", dslSchema))
	if err != nil {
		t.Fatal(err)
	}
	defKind := r.TypeNamed("Definition").Kind
	progKind := r.TypeNamed("Program").Kind

	a := ir.New(progKind, []*ir.Node{ir.New(defKind, "foo")})
	b, err := ir.Transform(a, ir.PreOrder, func(p *ir.Proxy, post bool) (ir.Action, error) {
		if p.Kind() == progKind {
			p.Edge("definitions").Append(ir.New(defKind, "bar"))
		}
		return ir.Continue, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	patch, err := Diff(a, a)
	if err != nil {
		t.Fatal(err)
	}
	if string(patch) != "{}" {
		t.Errorf("diff of equal trees = %s, want {}", patch)
	}

	patch, err = Diff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if string(patch) == "{}" {
		t.Error("diff of distinct trees is empty")
	}
}
