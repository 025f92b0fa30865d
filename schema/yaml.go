package schema

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// The YAML form mirrors the declaration language one-to-one:
//
//	schema: ast
//	types:
//	  - name: Expr
//	    kind: abstract
//	  - name: Definition
//	    kind: node
//	    properties:
//	      - {name: name, type: string}
//	      - {name: body, type: Expr, nullable: true}
//	  - name: Program
//	    kind: node
//	    properties:
//	      - {name: definitions, type: Definition, array: true}
//	    indices:
//	      - {name: DefinitionByName, on: definitions, key: name}

type yamlFile struct {
	Schema string     `yaml:"schema"`
	Types  []yamlType `yaml:"types"`
}

type yamlType struct {
	Name       string      `yaml:"name"`
	Kind       string      `yaml:"kind"`
	Super      string      `yaml:"super"`
	Members    []string    `yaml:"members"`
	Properties []yamlProp  `yaml:"properties"`
	Indices    []yamlIndex `yaml:"indices"`
}

type yamlProp struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Array    bool   `yaml:"array"`
	Nullable bool   `yaml:"nullable"`
}

type yamlIndex struct {
	Name string `yaml:"name"`
	On   string `yaml:"on"`
	Key  string `yaml:"key"` // dotted path
}

// ParseYAMLFile reads and parses one YAML schema file.
func ParseYAMLFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseYAML parses the YAML form of a schema into the same declaration File
// the text parser produces.
func ParseYAML(data []byte) (*File, error) {
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrParse)
	}
	if yf.Schema == "" {
		return nil, fmt.Errorf("missing schema name: %w", ErrParse)
	}
	f := &File{Name: yf.Schema}
	for i, yt := range yf.Types {
		at := Pos{Line: i + 1}
		d := &TypeDecl{Name: yt.Name, Super: yt.Super, Members: yt.Members, Pos: at}
		switch yt.Kind {
		case "node", "":
			d.Class = ClassNode
		case "abstract":
			d.Class = ClassIntermediate
		case "variant":
			d.Class = ClassVariant
		default:
			return nil, fmt.Errorf("type %s: unknown kind %q: %w", yt.Name, yt.Kind, ErrParse)
		}
		for _, yp := range yt.Properties {
			d.Props = append(d.Props, &PropDecl{
				Name:     yp.Name,
				Type:     yp.Type,
				IsArray:  yp.Array,
				Nullable: yp.Nullable,
				Pos:      at,
			})
		}
		for _, yi := range yt.Indices {
			if yi.Key == "" {
				return nil, fmt.Errorf("index %s: missing key: %w", yi.Name, ErrParse)
			}
			d.Indices = append(d.Indices, &IndexDecl{
				Name:    yi.Name,
				Source:  yi.On,
				KeyPath: strings.Split(yi.Key, "."),
				Pos:     at,
			})
		}
		f.Decls = append(f.Decls, d)
	}
	return f, nil
}
