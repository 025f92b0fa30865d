package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Transform bool
	Build     bool
	Index     bool
	Schema    bool
	Codegen   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Transform = boolEnv("GROVE_DEBUG_TRANSFORM")
	d.Build = boolEnv("GROVE_DEBUG_BUILD")
	d.Index = boolEnv("GROVE_DEBUG_INDEX")
	d.Schema = boolEnv("GROVE_DEBUG_SCHEMA")
	d.Codegen = boolEnv("GROVE_DEBUG_CODEGEN")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Transform() bool {
	return d.Transform
}
func Build() bool {
	return d.Build
}
func Index() bool {
	return d.Index
}
func Schema() bool {
	return d.Schema
}
func Codegen() bool {
	return d.Codegen
}
