// Package options holds the generator flags shared by gen and check.
package options

import (
	"github.com/broady/jsvgen"
	"github.com/broady/jsvgen/schema"
)

type Generator struct {
	Source         string   `arg:"" help:"Schema document: a local path or an http(s) URL."`
	SchemaPath     string   `help:"Object of named schemas, e.g. components/schemas." name:"schema-path" short:"s"`
	Ignore         []string `help:"Glob pattern of schema names to skip. Repeatable." short:"i"`
	Package        string   `help:"Package name of generated files (default: derived from the output directory)." short:"p"`
	OutFile        string   `help:"Name of the validators file." name:"out-file" default:"validators.go"`
	Format         string   `help:"Document format, json or yaml (default: by extension)."`
	Export         bool     `help:"Name validators ValidateX instead of validateX." short:"e"`
	WithoutRuntime bool     `help:"Do not write the jsonrt_*.go runtime files." name:"without-runtime"`
	Strict         bool     `help:"Check schemas against the supported-subset meta-schema first."`
	Concurrency    int      `help:"Schemas compiled in parallel (default: GOMAXPROCS)." short:"j"`
}

// Build returns a jsvgen.Generator configured from the flags.
func (o *Generator) Build() *jsvgen.Generator {
	g := jsvgen.FromFile(o.Source).
		SchemaPath(o.SchemaPath).
		Ignore(o.Ignore...).
		Package(o.Package).
		OutFile(o.OutFile).
		Format(schema.Format(o.Format)).
		Concurrency(o.Concurrency)
	if o.Export {
		g = g.ExportValidators()
	}
	if o.WithoutRuntime {
		g = g.WithoutRuntime()
	}
	if o.Strict {
		g = g.Strict()
	}
	return g
}
