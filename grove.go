// Package grove ties the engine together: schema loading, tree
// construction, transformation, and code generation live in the
// subpackages; this package holds the small amount of glue shared by
// tools built on them.
package grove

import (
	"fmt"
	"path/filepath"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/grove-ir/grove/ir"
	"github.com/grove-ir/grove/schema"
)

// LoadSchema reads and resolves a schema file. Files ending in .yaml or
// .yml use the YAML schema form, everything else the DSL.
func LoadSchema(path string) (*schema.Resolved, error) {
	var (
		f   *schema.File
		err error
	)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		f, err = schema.ParseYAMLFile(path)
	default:
		f, err = schema.ParseFile(path)
	}
	if err != nil {
		return nil, err
	}
	return schema.Resolve(f)
}

// Diff renders the difference between two trees as a JSON merge patch
// over their snapshots. Equal trees yield the empty patch "{}".
func Diff(a, b *ir.Node) ([]byte, error) {
	aj, err := ir.ToJSON(a)
	if err != nil {
		return nil, err
	}
	bj, err := ir.ToJSON(b)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(aj, bj)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	return patch, nil
}
