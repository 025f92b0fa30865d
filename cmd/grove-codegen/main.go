package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/grove-ir/grove"
	"github.com/grove-ir/grove/codegen"
	"github.com/grove-ir/grove/schema"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &Config{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommand("grove-codegen").
		WithSynopsis("grove-codegen [opts] schema...").
		WithDescription("Generate typed Go node wrappers from grove schema files (.grove text form or .yaml).").
		WithOpts(sOpts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

type Config struct {
	OutputFile string `cli:"name=o desc='output file for generated Go code (default: <schema>_gen.go next to the schema)'"`
	Package    string `cli:"name=pkg desc='generated package name (default: the schema name, lowercased)'"`
	ConfigFile string `cli:"name=config desc='YAML file listing generation jobs, instead of schema arguments'"`
	Check      bool   `cli:"name=check desc='verify generated files are up to date instead of writing them'"`
}

// job is one schema-to-file generation unit, either derived from the
// command line or read from a -config file.
type job struct {
	Schema  string `yaml:"schema"`
	Output  string `yaml:"output"`
	Package string `yaml:"package"`
}

func run(cfg *Config, cc *cli.Context, args []string) error {
	jobs, err := gatherJobs(cfg, args)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no schema files given", cli.ErrUsage)
	}

	stale := 0
	for _, j := range jobs {
		upToDate, err := runJob(cfg, j)
		if err != nil {
			return fmt.Errorf("%s: %w", j.Schema, err)
		}
		if !upToDate {
			stale++
		}
	}
	if cfg.Check && stale > 0 {
		return fmt.Errorf("%d generated file(s) out of date", stale)
	}
	return nil
}

func gatherJobs(cfg *Config, args []string) ([]*job, error) {
	if cfg.ConfigFile == "" {
		if len(args) > 1 && cfg.OutputFile != "" {
			return nil, fmt.Errorf("%w: -o is single-schema only", cli.ErrUsage)
		}
		var jobs []*job
		for _, a := range args {
			jobs = append(jobs, &job{Schema: a, Output: cfg.OutputFile, Package: cfg.Package})
		}
		return jobs, nil
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("%w: cannot mix -config with schema arguments", cli.ErrUsage)
	}
	data, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	var jf struct {
		Jobs []*job `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.ConfigFile, err)
	}
	// paths in the config file are relative to it
	base := filepath.Dir(cfg.ConfigFile)
	for _, j := range jf.Jobs {
		j.Schema = joinRel(base, j.Schema)
		j.Output = joinRel(base, j.Output)
	}
	return jf.Jobs, nil
}

func joinRel(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func runJob(cfg *Config, j *job) (upToDate bool, err error) {
	r, err := grove.LoadSchema(j.Schema)
	if err != nil {
		return false, err
	}
	src, err := codegen.Generate(r, codegen.Options{Package: j.Package})
	if err != nil {
		return false, err
	}
	out := j.Output
	if out == "" {
		out = filepath.Join(filepath.Dir(j.Schema), genFileName(r))
	}
	if !cfg.Check {
		return true, os.WriteFile(out, src, 0644)
	}
	have, err := os.ReadFile(out)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("%s: %s missing\n", j.Schema, out)
			return false, nil
		}
		return false, err
	}
	if bytes.Equal(have, src) {
		return true, nil
	}
	fmt.Printf("%s: %s out of date\n", j.Schema, out)
	printDiff(string(have), string(src))
	return false, nil
}

func genFileName(r *schema.Resolved) string {
	return strings.ToLower(r.Name) + "_gen.go"
}

func printDiff(have, want string) {
	color.NoColor = color.NoColor || !isatty.IsTerminal(os.Stdout.Fd())
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(have, want)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			color.Red("%s", prefixLines("-", d.Text))
		case diffmatchpatch.DiffInsert:
			color.Green("%s", prefixLines("+", d.Text))
		}
	}
}

func prefixLines(prefix, text string) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
