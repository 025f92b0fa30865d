package codegen

import "text/template"

var fileTmpl = template.Must(template.New("file").Parse(fileTemplate))

func init() {
	template.Must(fileTmpl.New("kind").Parse(kindTemplate))
}

const fileTemplate = `// Code generated by grove-codegen from schema "{{.Schema}}". DO NOT EDIT.

package {{.Package}}

import (
	"github.com/grove-ir/grove/ir"
)

// Kinds lists the concrete node kinds of schema {{.Schema}}, in declaration
// order.
var Kinds = []*ir.Kind{
{{- range .Kinds}}
	{{.Name}}Kind,
{{- end}}
}

// KindNamed returns the named kind descriptor, or nil.
func KindNamed(name string) *ir.Kind {
	switch name {
{{- range .Kinds}}
	case "{{.Name}}":
		return {{.Name}}Kind
{{- end}}
	}
	return nil
}
{{range .Unions}}
// {{.Name}} is the closed set of kinds usable as {{.Name}}.
type {{.Name}} interface {
	Node() *ir.Node
	{{.Marker}}()
}

// As{{.Name}} classifies n as a {{.Name}} member.
func As{{.Name}}(n *ir.Node) ({{.Name}}, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Kind() {
{{- range .Members}}
	case {{.}}Kind:
		w, _ := As{{.}}(n)
		return w, true
{{- end}}
	}
	return nil, false
}
{{end}}
{{- range .Kinds}}
{{template "kind" .}}
{{- end}}`

const kindTemplate = `var {{.Name}}Kind = &ir.Kind{
	Name: "{{.Name}}",
	Properties: []ir.Property{
{{- range .Props}}
		{Name: "{{.Name}}"{{if .IsNode}}, IsNode: true{{end}}{{if .IsArray}}, IsArray: true{{end}}{{if .Nullable}}, Nullable: true{{end}}},
{{- end}}
	},
{{- if .Indices}}
	Indices: []ir.Index{
{{- range .Indices}}
		{Name: "{{.Name}}", Source: "{{.Source}}", KeyPath: []string{ {{- range $i, $s := .KeyPath}}{{if $i}}, {{end}}"{{$s}}"{{end -}} }},
{{- end}}
	},
{{- end}}
}

// {{.Name}} wraps an immutable node of kind {{.Name}}.
type {{.Name}} struct{ n *ir.Node }

// New{{.Name}} constructs a {{.Name}} node.
func New{{.Name}}({{range $i, $p := .Props}}{{if $i}}, {{end}}{{$p.Arg}} {{if $p.IsNode}}{{if $p.IsArray}}[]*ir.Node{{else}}*ir.Node{{end}}{{else}}{{$p.GoType}}{{end}}{{end}}) *{{.Name}} {
	return &{{.Name}}{n: ir.New({{.Name}}Kind{{range .Props}}, {{.Arg}}{{end}})}
}

// As{{.Name}} wraps n when it is of kind {{.Name}}.
func As{{.Name}}(n *ir.Node) (*{{.Name}}, bool) {
	if n == nil || n.Kind() != {{.Name}}Kind {
		return nil, false
	}
	return &{{.Name}}{n: n}, true
}

func (x *{{.Name}}) Node() *ir.Node { return x.n }

// JSON returns the subtree snapshot.
func (x *{{.Name}}) JSON() map[string]any { return x.n.JSON() }
{{- range $m := .Unions}}

func (x *{{$.Name}}) {{$m}}() {}
{{- end}}
{{- range .Props}}
{{- if not .IsNode}}

func (x *{{$.Name}}) {{.GoName}}() {{.GoType}} {
	v, _ := x.n.Scalar("{{.Name}}").({{.GoType}})
	return v
}
{{- else if .IsArray}}

func (x *{{$.Name}}) {{.GoName}}Count() int { return x.n.Edge("{{.Name}}").Count() }

func (x *{{$.Name}}) {{.GoName}}At(i int) (*ir.Node, error) { return x.n.Edge("{{.Name}}").At(i) }
{{- else}}

func (x *{{$.Name}}) {{.GoName}}() *ir.Node { return x.n.Edge("{{.Name}}").Value() }
{{- end}}
{{- end}}
{{- range .Indices}}

// {{.GoName}} resolves a key in the {{.Name}} index.
func (x *{{$.Name}}) {{.GoName}}(key string) (*ir.Node, error) {
	return x.n.Lookup("{{.Name}}", key)
}
{{- end}}
{{- range .Ancestors}}

// {{.}} returns the nearest {{.}} ancestor.
func (x *{{$.Name}}) {{.}}() (*{{.}}, bool) {
	p := x.n.ParentOfKind({{.}}Kind)
	if p == nil {
		return nil, false
	}
	return As{{.}}(p)
}
{{- end}}

// {{.Name}}Proxy wraps a mutable overlay of kind {{.Name}} inside a
// transformation.
type {{.Name}}Proxy struct{ p *ir.Proxy }

// As{{.Name}}Proxy wraps p when it is of kind {{.Name}}.
func As{{.Name}}Proxy(p *ir.Proxy) (*{{.Name}}Proxy, bool) {
	if p == nil || p.Kind() != {{.Name}}Kind {
		return nil, false
	}
	return &{{.Name}}Proxy{p: p}, true
}

func (x *{{.Name}}Proxy) Proxy() *ir.Proxy { return x.p }

// Remove detaches this node from its holding edge.
func (x *{{.Name}}Proxy) Remove() error { return x.p.Remove() }
{{- range .Props}}
{{- if not .IsNode}}

func (x *{{$.Name}}Proxy) {{.GoName}}() {{.GoType}} {
	v, _ := x.p.Scalar("{{.Name}}").({{.GoType}})
	return v
}

func (x *{{$.Name}}Proxy) Set{{.GoName}}(v {{.GoType}}) { x.p.SetScalar("{{.Name}}", v) }
{{- else if .IsArray}}

func (x *{{$.Name}}Proxy) {{.GoName}}Count() int { return x.p.Edge("{{.Name}}").Count() }

func (x *{{$.Name}}Proxy) {{.GoName}}At(i int) (*ir.Proxy, error) { return x.p.Edge("{{.Name}}").At(i) }

func (x *{{$.Name}}Proxy) Append{{.Singular}}(v *ir.Node) { x.p.Edge("{{.Name}}").Append(v) }

func (x *{{$.Name}}Proxy) Prepend{{.Singular}}(v *ir.Node) { x.p.Edge("{{.Name}}").Prepend(v) }
{{- else}}

func (x *{{$.Name}}Proxy) {{.GoName}}() *ir.Proxy { return x.p.Edge("{{.Name}}").Value() }

func (x *{{$.Name}}Proxy) Set{{.GoName}}(v *ir.Node) error { return x.p.Edge("{{.Name}}").SetValue(v) }
{{- if .Nullable}}

func (x *{{$.Name}}Proxy) Remove{{.GoName}}() error { return x.p.Edge("{{.Name}}").Remove() }
{{- end}}
{{- end}}
{{- end}}
{{- range .Indices}}

// {{.GoName}} resolves a key in the {{.Name}} index, reflecting edits made
// in the current transformation.
func (x *{{$.Name}}Proxy) {{.GoName}}(key string) (*ir.Proxy, error) {
	return x.p.Lookup("{{.Name}}", key)
}
{{- end}}
{{- range .Ancestors}}

// {{.}} returns the nearest {{.}} ancestor.
func (x *{{$.Name}}Proxy) {{.}}() (*{{.}}Proxy, bool) {
	q := x.p.ParentOfKind({{.}}Kind)
	if q == nil {
		return nil, false
	}
	return As{{.}}Proxy(q)
}
{{- end}}
`
