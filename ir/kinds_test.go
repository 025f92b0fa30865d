package ir

// Shared schema fixtures. The expression-language family is the running
// example: a Program holds Definitions looked up by name, a Definition holds
// an expression body.

type astKinds struct {
	program    *Kind
	definition *Kind
	numberLit  *Kind
}

func newASTKinds() *astKinds {
	k := &astKinds{}
	k.numberLit = &Kind{
		Name:       "NumberLiteral",
		Properties: []Property{{Name: "value"}},
	}
	k.definition = &Kind{
		Name: "Definition",
		Properties: []Property{
			{Name: "name"},
			{Name: "body", IsNode: true, Nullable: true},
		},
	}
	k.program = &Kind{
		Name: "Program",
		Properties: []Property{
			{Name: "definitions", IsNode: true, IsArray: true},
		},
		Indices: []Index{{
			Name:    "DefinitionByName",
			Source:  "definitions",
			KeyPath: []string{"name"},
		}},
	}
	return k
}

func (k *astKinds) num(v string) *Node {
	return New(k.numberLit, v)
}

func (k *astKinds) def(name string, body *Node) *Node {
	return New(k.definition, name, body)
}

func (k *astKinds) prog(defs ...*Node) *Node {
	return New(k.program, defs)
}

// deepKinds declares an index whose key path crosses an intermediate kind:
// Module indexes its decls by the text of each decl's ident child.

type deepKinds struct {
	module *Kind
	decl   *Kind
	ident  *Kind
}

func newDeepKinds() *deepKinds {
	k := &deepKinds{}
	k.ident = &Kind{
		Name:       "Ident",
		Properties: []Property{{Name: "text"}},
	}
	k.decl = &Kind{
		Name: "Decl",
		Properties: []Property{
			{Name: "ident", IsNode: true},
			{Name: "exported"},
		},
	}
	k.module = &Kind{
		Name: "Module",
		Properties: []Property{
			{Name: "decls", IsNode: true, IsArray: true},
		},
		Indices: []Index{{
			Name:    "DeclByIdent",
			Source:  "decls",
			KeyPath: []string{"ident", "text"},
		}},
	}
	return k
}
