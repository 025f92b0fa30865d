package schema

import (
	"fmt"

	"github.com/grove-ir/grove/debug"
	"github.com/grove-ir/grove/ir"
)

// scalarTypes are the builtin property types.
var scalarTypes = map[string]bool{
	"string": true,
	"int":    true,
	"float":  true,
	"bool":   true,
}

// Resolved is a checked schema: every reference bound, inheritance flattened,
// indices validated, and one ir.Kind descriptor minted per concrete kind.
type Resolved struct {
	Name  string
	Types []*Type

	byName    map[string]*Type
	kinds     []*ir.Kind
	concretes map[*Type][]*Type
}

// Type is one resolved declared type.
type Type struct {
	Name    string
	Class   Class
	Super   *Type
	Props   []*Prop // flattened, inherited properties first
	Indices []*IndexDecl
	Members []*Type // variant members
	Decl    *TypeDecl
	Kind    *ir.Kind // non-nil iff Class == ClassNode
}

// Prop is one resolved property: either a builtin scalar or a reference to a
// declared type.
type Prop struct {
	Name     string
	Scalar   string // builtin type name, "" for references
	Ref      *Type
	IsArray  bool
	Nullable bool
}

// Resolve checks a parsed file and produces descriptors. All errors wrap
// ErrResolve and carry the source position of the offending declaration.
func Resolve(f *File) (*Resolved, error) {
	r := &Resolved{
		Name:      f.Name,
		byName:    make(map[string]*Type, len(f.Decls)),
		concretes: map[*Type][]*Type{},
	}
	// declare symbols first; everything after may forward-reference
	for _, d := range f.Decls {
		if scalarTypes[d.Name] {
			return nil, errAt(d.Pos, "%s shadows a builtin type", d.Name)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, errAt(d.Pos, "duplicate declaration of %s", d.Name)
		}
		t := &Type{Name: d.Name, Class: d.Class, Decl: d}
		r.byName[d.Name] = t
		r.Types = append(r.Types, t)
	}
	for _, t := range r.Types {
		if err := r.link(t); err != nil {
			return nil, err
		}
	}
	if err := r.checkSuperCycles(); err != nil {
		return nil, err
	}
	if err := r.checkVariantCycles(); err != nil {
		return nil, err
	}
	for _, t := range r.Types {
		if err := r.flatten(t); err != nil {
			return nil, err
		}
	}
	for _, t := range r.Types {
		if err := r.checkIndices(t); err != nil {
			return nil, err
		}
	}
	r.mintKinds()
	if debug.Schema() {
		debug.Logf("schema %s: %d types, %d kinds\n", r.Name, len(r.Types), len(r.kinds))
	}
	return r, nil
}

func errAt(p Pos, format string, args ...any) error {
	return fmt.Errorf("%d:%d: %s: %w", p.Line, p.Col, fmt.Sprintf(format, args...), ErrResolve)
}

// link binds supertype and variant member names.
func (r *Resolved) link(t *Type) error {
	d := t.Decl
	if d.Super != "" {
		super, ok := r.byName[d.Super]
		if !ok {
			return errAt(d.Pos, "%s: undefined supertype %s", t.Name, d.Super)
		}
		if super.Class != ClassIntermediate {
			return errAt(d.Pos, "%s: supertype %s is a %s, want abstract",
				t.Name, d.Super, super.Class)
		}
		t.Super = super
	}
	for _, m := range d.Members {
		mt, ok := r.byName[m]
		if !ok {
			return errAt(d.Pos, "%s: undefined variant member %s", t.Name, m)
		}
		t.Members = append(t.Members, mt)
	}
	t.Indices = d.Indices
	return nil
}

// checkSuperCycles rejects inheritance loops. Chains are single-parent, so a
// visited set per walk suffices.
func (r *Resolved) checkSuperCycles() error {
	for _, t := range r.Types {
		seen := map[*Type]bool{t: true}
		for s := t.Super; s != nil; s = s.Super {
			if seen[s] {
				return errAt(t.Decl.Pos, "%s: inheritance cycle through %s", t.Name, s.Name)
			}
			seen[s] = true
		}
	}
	return nil
}

// checkVariantCycles rejects variants that reach themselves through member
// variants.
func (r *Resolved) checkVariantCycles() error {
	const (
		visiting = 1
		done     = 2
	)
	state := map[*Type]int{}
	var visit func(t *Type) error
	visit = func(t *Type) error {
		switch state[t] {
		case done:
			return nil
		case visiting:
			return errAt(t.Decl.Pos, "%s: variant membership cycle", t.Name)
		}
		state[t] = visiting
		for _, m := range t.Members {
			if m.Class == ClassVariant {
				if err := visit(m); err != nil {
					return err
				}
			}
		}
		state[t] = done
		return nil
	}
	for _, t := range r.Types {
		if t.Class == ClassVariant {
			if err := visit(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// flatten resolves t's own properties and prepends the inherited ones,
// supertype-first, rejecting name collisions along the chain.
func (r *Resolved) flatten(t *Type) error {
	if t.Class == ClassVariant {
		if len(t.Decl.Props) != 0 || len(t.Decl.Indices) != 0 {
			return errAt(t.Decl.Pos, "%s: variants carry no properties", t.Name)
		}
		return nil
	}
	var lineage []*Type
	for s := t; s != nil; s = s.Super {
		lineage = append(lineage, s)
	}
	seen := map[string]string{}
	for i := len(lineage) - 1; i >= 0; i-- {
		s := lineage[i]
		for _, pd := range s.Decl.Props {
			// "kind" is the discriminator key of every snapshot
			if pd.Name == "kind" {
				return errAt(pd.Pos, "%s: property name kind is reserved", t.Name)
			}
			if from, dup := seen[pd.Name]; dup {
				return errAt(pd.Pos, "%s: property %s already declared by %s",
					t.Name, pd.Name, from)
			}
			seen[pd.Name] = s.Name
			p := &Prop{
				Name:     pd.Name,
				IsArray:  pd.IsArray,
				Nullable: pd.Nullable,
			}
			if scalarTypes[pd.Type] {
				if pd.IsArray {
					return errAt(pd.Pos, "%s.%s: arrays hold node types, not %s",
						t.Name, pd.Name, pd.Type)
				}
				p.Scalar = pd.Type
			} else {
				ref, ok := r.byName[pd.Type]
				if !ok {
					return errAt(pd.Pos, "%s.%s: undefined type %s",
						t.Name, pd.Name, pd.Type)
				}
				p.Ref = ref
			}
			t.Props = append(t.Props, p)
		}
	}
	return nil
}

// Concretes returns the concrete kinds a type can stand for: the type itself
// for nodes, every node below an abstract, the member closure of a variant.
func (r *Resolved) Concretes(t *Type) []*Type {
	if cached, ok := r.concretes[t]; ok {
		return cached
	}
	var res []*Type
	switch t.Class {
	case ClassNode:
		res = []*Type{t}
	case ClassIntermediate:
		for _, c := range r.Types {
			if c.Class != ClassNode {
				continue
			}
			for s := c.Super; s != nil; s = s.Super {
				if s == t {
					res = append(res, c)
					break
				}
			}
		}
	case ClassVariant:
		seen := map[*Type]bool{}
		for _, m := range t.Members {
			for _, c := range r.Concretes(m) {
				if !seen[c] {
					seen[c] = true
					res = append(res, c)
				}
			}
		}
	}
	r.concretes[t] = res
	return res
}

// checkIndices validates every index of a concrete kind: the source must be
// an array of node types and the key path must resolve, on every concrete
// element kind, through single references to a string scalar.
func (r *Resolved) checkIndices(t *Type) error {
	if t.Class != ClassNode && len(t.Indices) > 0 {
		return errAt(t.Decl.Pos, "%s: only nodes declare indices", t.Name)
	}
	for _, idx := range t.Indices {
		src := propNamed(t.Props, idx.Source)
		if src == nil {
			return errAt(idx.Pos, "index %s: %s has no property %s",
				idx.Name, t.Name, idx.Source)
		}
		if !src.IsArray || src.Ref == nil {
			return errAt(idx.Pos, "index %s: source %s must be an array of nodes",
				idx.Name, idx.Source)
		}
		if err := r.checkKeyPath(idx, src.Ref, idx.KeyPath); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolved) checkKeyPath(idx *IndexDecl, elem *Type, path []string) error {
	for _, ck := range r.Concretes(elem) {
		p := propNamed(ck.Props, path[0])
		if p == nil {
			return errAt(idx.Pos, "index %s: %s has no property %s",
				idx.Name, ck.Name, path[0])
		}
		if len(path) == 1 {
			if p.Scalar != "string" {
				return errAt(idx.Pos, "index %s: key %s.%s must be a string scalar",
					idx.Name, ck.Name, path[0])
			}
			continue
		}
		if p.Ref == nil || p.IsArray {
			return errAt(idx.Pos, "index %s: hop %s.%s must be a single node reference",
				idx.Name, ck.Name, path[0])
		}
		if err := r.checkKeyPath(idx, p.Ref, path[1:]); err != nil {
			return err
		}
	}
	return nil
}

func propNamed(props []*Prop, name string) *Prop {
	for _, p := range props {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// mintKinds produces one ir.Kind per concrete type, in declaration order.
// Descriptors are shared: the same pointers flow into trees and generated
// code.
func (r *Resolved) mintKinds() {
	for _, t := range r.Types {
		if t.Class != ClassNode {
			continue
		}
		k := &ir.Kind{Name: t.Name}
		for _, p := range t.Props {
			k.Properties = append(k.Properties, ir.Property{
				Name:     p.Name,
				IsNode:   p.Ref != nil,
				IsArray:  p.IsArray,
				Nullable: p.Nullable,
			})
		}
		for _, idx := range t.Indices {
			k.Indices = append(k.Indices, ir.Index{
				Name:    idx.Name,
				Source:  idx.Source,
				KeyPath: idx.KeyPath,
			})
		}
		t.Kind = k
		r.kinds = append(r.kinds, k)
	}
}

// Kinds returns the concrete kind descriptors in declaration order.
func (r *Resolved) Kinds() []*ir.Kind {
	return r.kinds
}

// TypeNamed returns the resolved type with the given name, or nil.
func (r *Resolved) TypeNamed(name string) *Type {
	return r.byName[name]
}
