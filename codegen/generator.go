package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/grove-ir/grove/debug"
	"github.com/grove-ir/grove/schema"
)

// Options configures one generation run.
type Options struct {
	// Package is the generated package name; defaults to the schema name.
	Package string
}

// Generate renders a resolved schema as a single Go source file, formatted
// and with imports fixed up.
func Generate(r *schema.Resolved, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = strings.ToLower(r.Name)
	}
	data, err := buildData(r, pkg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}
	if debug.Codegen() {
		debug.Logf("codegen %s: %d bytes before format\n", r.Name, buf.Len())
	}
	src, err := imports.Process(pkg+"_gen.go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("codegen: generated source does not format: %w", err)
	}
	return src, nil
}

type fileData struct {
	Schema  string
	Package string
	Kinds   []*kindData
	Unions  []*unionData
}

type kindData struct {
	Name      string
	Props     []*propData
	Indices   []*indexData
	Ancestors []string
	Unions    []string
}

type propData struct {
	Name     string // schema property name
	GoName   string
	Arg      string
	Singular string
	IsNode   bool
	IsArray  bool
	Nullable bool
	GoType   string // scalar Go type, "" for node references
}

type indexData struct {
	Name    string
	GoName  string
	Source  string
	KeyPath []string
}

type unionData struct {
	Name    string
	Marker  string
	Members []string
}

var scalarGoTypes = map[string]string{
	"string": "string",
	"int":    "int64",
	"float":  "float64",
	"bool":   "bool",
}

func buildData(r *schema.Resolved, pkg string) (*fileData, error) {
	data := &fileData{Schema: r.Name, Package: pkg}

	// direct containment: which kinds can hold which, through any node
	// property, expanded to concretes
	containers := map[string]map[string]bool{}
	for _, t := range r.Types {
		if t.Class != schema.ClassNode {
			continue
		}
		for _, p := range t.Props {
			if p.Ref == nil {
				continue
			}
			for _, c := range r.Concretes(p.Ref) {
				if containers[c.Name] == nil {
					containers[c.Name] = map[string]bool{}
				}
				containers[c.Name][t.Name] = true
			}
		}
	}

	markers := map[string][]string{} // kind name -> marker methods
	for _, t := range r.Types {
		if t.Class == schema.ClassNode {
			continue
		}
		u := &unionData{Name: t.Name, Marker: "is" + t.Name}
		for _, c := range r.Concretes(t) {
			u.Members = append(u.Members, c.Name)
			markers[c.Name] = append(markers[c.Name], u.Marker)
		}
		data.Unions = append(data.Unions, u)
	}

	for _, t := range r.Types {
		if t.Class != schema.ClassNode {
			continue
		}
		kd := &kindData{Name: t.Name, Unions: markers[t.Name]}
		taken := map[string]bool{
			"Node": true, "Proxy": true, "JSON": true, "Remove": true, "Kind": true,
		}
		for _, p := range t.Props {
			pd := &propData{
				Name:     p.Name,
				GoName:   export(p.Name),
				Arg:      argName(p.Name),
				Singular: export(singular(p.Name)),
				IsNode:   p.Ref != nil,
				IsArray:  p.IsArray,
				Nullable: p.Nullable,
			}
			if p.Ref == nil {
				pd.GoType = scalarGoTypes[p.Scalar]
			}
			if taken[pd.GoName] {
				return nil, fmt.Errorf("codegen: %s: property %s collides with another method",
					t.Name, p.Name)
			}
			taken[pd.GoName] = true
			kd.Props = append(kd.Props, pd)
		}
		for _, idx := range t.Indices {
			id := &indexData{
				Name:    idx.Name,
				GoName:  export(idx.Name),
				Source:  idx.Source,
				KeyPath: idx.KeyPath,
			}
			if taken[id.GoName] {
				return nil, fmt.Errorf("codegen: %s: index %s collides with another method",
					t.Name, idx.Name)
			}
			taken[id.GoName] = true
			kd.Indices = append(kd.Indices, id)
		}
		for anc := range transitive(containers, t.Name) {
			if !taken[anc] && anc != t.Name {
				kd.Ancestors = append(kd.Ancestors, anc)
			}
		}
		// declaration order keeps output stable
		kd.Ancestors = sortByDecl(r, kd.Ancestors)
		data.Kinds = append(data.Kinds, kd)
	}
	return data, nil
}

// transitive computes every kind reachable upward from name in the
// containment graph. Cyclic schemas terminate because the visited set is
// monotone.
func transitive(containers map[string]map[string]bool, name string) map[string]bool {
	res := map[string]bool{}
	work := []string{name}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		for parent := range containers[cur] {
			if !res[parent] {
				res[parent] = true
				work = append(work, parent)
			}
		}
	}
	return res
}

func sortByDecl(r *schema.Resolved, names []string) []string {
	var res []string
	for _, t := range r.Types {
		for _, n := range names {
			if n == t.Name {
				res = append(res, n)
			}
		}
	}
	return res
}

func export(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true,
	"for": true, "func": true, "go": true, "goto": true, "if": true,
	"import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true,
	"switch": true, "type": true, "var": true,
}

func argName(name string) string {
	if goKeywords[name] {
		return name + "_"
	}
	return name
}

// singular derives the element name of an array property for Append/Prepend
// methods: definitions -> definition, bodies -> body.
func singular(name string) string {
	switch {
	case strings.HasSuffix(name, "ies"):
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "s") && len(name) > 1:
		return name[:len(name)-1]
	default:
		return name
	}
}
