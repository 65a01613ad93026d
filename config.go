// Package jsvgen generates Go validators from the schemas of a JSON Schema
// or OpenAPI document.
//
// The generated package holds one struct per object schema, one validator
// function per schema and a copy of the jsonrt runtime. Use the fluent
// Generator for the common cases:
//
//	res, err := jsvgen.FromFile("openapi.yaml").
//	    SchemaPath("components/schemas").
//	    Ignore("Internal*").
//	    ToDir(ctx, "./internal/petstore")
package jsvgen

import (
	"bytes"
	"context"
	"go/token"
	"net/http"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/broady/jsvgen/schema"
	"github.com/broady/jsvgen/sink"
)

// Default output locations.
const (
	DefaultOutDir  = "./json-schema"
	DefaultOutFile = "validators.go"
	// DefaultPackage is used when no package name can be derived from OutDir.
	DefaultPackage = "validators"
)

// Config holds the configuration for a generator run.
type Config struct {
	// Source is a local path or http(s) URL of the schema document.
	Source string `validate:"required_without=Document"`

	// Document is the schema document itself. It takes precedence over Source.
	Document []byte

	// Format of the document. Default: detected from the Source extension,
	// or from the first byte of Document.
	Format schema.Format `validate:"omitempty,oneof=json yaml"`

	// SchemaPath selects the object of named schemas, e.g. "components/schemas"
	// or "components.schemas". Empty selects the document root.
	SchemaPath string

	// Ignore lists glob patterns of schema names to skip.
	Ignore []string `validate:"dive,glob"`

	// OutDir is the directory generated files are written to.
	// Default: "./json-schema"
	OutDir string

	// OutFile names the generated validators file inside OutDir.
	// Default: "validators.go"
	OutFile string `validate:"omitempty,endswith=.go,excludesall=/\\"`

	// Package is the package clause of every generated file.
	// Default: derived from the base name of OutDir.
	Package string `validate:"omitempty,gopkg"`

	// ExportValidators names validators ValidateX instead of validateX.
	ExportValidators bool

	// WithoutRuntime skips writing the jsonrt_*.go runtime files.
	WithoutRuntime bool

	// Strict checks the selected schemas against the supported-subset
	// meta-schema before compiling.
	Strict bool

	// Concurrency bounds how many schemas compile at once. Zero means GOMAXPROCS.
	Concurrency int `validate:"gte=0"`

	// HTTPClient fetches URL sources. Default: http.DefaultClient.
	HTTPClient *http.Client `validate:"-"`

	// TracerProvider and MeterProvider default to the otel globals.
	TracerProvider trace.TracerProvider `validate:"-"`
	MeterProvider  metric.MeterProvider `validate:"-"`
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	result := *cfg
	result.Ignore = append([]string(nil), cfg.Ignore...)

	if result.OutDir == "" {
		result.OutDir = DefaultOutDir
	}
	if result.OutFile == "" {
		result.OutFile = DefaultOutFile
	}
	if result.Package == "" {
		result.Package = PackageName(result.OutDir)
	}
	if result.Format == "" {
		result.Format = detectFormat(&result)
	}
	return &result
}

func detectFormat(cfg *Config) schema.Format {
	if cfg.Document != nil {
		if trimmed := bytes.TrimSpace(cfg.Document); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
			return schema.FormatJSON
		}
		return schema.FormatYAML
	}
	return schema.DetectFormat(cfg.Source)
}

// PackageName derives a Go package name from a directory: the base name is
// lowercased and stripped of characters a package name cannot hold.
func PackageName(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if b.Len() > 0 {
				b.WriteRune(r)
			}
		}
	}
	name := b.String()
	if name == "" || name == "_" || token.IsKeyword(name) {
		return DefaultPackage
	}
	return name
}

func (cfg *Config) sourceName() string {
	if cfg.Document != nil || cfg.Source == "" {
		return "<inline>"
	}
	return cfg.Source
}

// Generator provides a fluent API for code generation.
// Create with FromFile or FromBytes and configure with method chaining.
type Generator struct {
	cfg Config
}

// FromFile creates a Generator reading the document at source, a local path
// or an http(s) URL.
func FromFile(source string) *Generator {
	return &Generator{cfg: Config{Source: source}}
}

// FromBytes creates a Generator for an in-memory document. An empty format is
// detected from the content.
func FromBytes(doc []byte, format schema.Format) *Generator {
	return &Generator{cfg: Config{Document: doc, Format: format}}
}

// SchemaPath selects the section of named schemas.
func (g *Generator) SchemaPath(path string) *Generator {
	g.cfg.SchemaPath = path
	return g
}

// Ignore adds glob patterns of schema names to skip.
// Can be called multiple times.
func (g *Generator) Ignore(patterns ...string) *Generator {
	g.cfg.Ignore = append(g.cfg.Ignore, patterns...)
	return g
}

// Package sets the package clause of generated files.
func (g *Generator) Package(name string) *Generator {
	g.cfg.Package = name
	return g
}

// OutFile sets the name of the validators file.
func (g *Generator) OutFile(name string) *Generator {
	g.cfg.OutFile = name
	return g
}

// Format overrides document format detection.
func (g *Generator) Format(f schema.Format) *Generator {
	g.cfg.Format = f
	return g
}

// ExportValidators names validators ValidateX.
func (g *Generator) ExportValidators() *Generator {
	g.cfg.ExportValidators = true
	return g
}

// WithoutRuntime disables writing the runtime support files.
// The target package must then already contain them.
func (g *Generator) WithoutRuntime() *Generator {
	g.cfg.WithoutRuntime = true
	return g
}

// Strict enables the meta-schema check.
func (g *Generator) Strict() *Generator {
	g.cfg.Strict = true
	return g
}

// Concurrency bounds parallel schema compilation.
func (g *Generator) Concurrency(n int) *Generator {
	g.cfg.Concurrency = n
	return g
}

// WithHTTPClient sets the client used for URL sources.
func (g *Generator) WithHTTPClient(c *http.Client) *Generator {
	g.cfg.HTTPClient = c
	return g
}

// WithTracerProvider sets the tracer provider.
func (g *Generator) WithTracerProvider(tp trace.TracerProvider) *Generator {
	g.cfg.TracerProvider = tp
	return g
}

// WithMeterProvider sets the meter provider.
func (g *Generator) WithMeterProvider(mp metric.MeterProvider) *Generator {
	g.cfg.MeterProvider = mp
	return g
}

// Config returns a copy of the accumulated configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// ToDir generates files into dir.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(ctx context.Context, dir string) (*GenerateResult, error) {
	g.cfg.OutDir = dir
	cfg := applyConfigDefaults(&g.cfg)
	return Generate(ctx, cfg, sink.NewDir(cfg.OutDir))
}

// Generate writes generated files to s instead of the file system.
// Use sink.NewMemory to keep them in memory.
func (g *Generator) Generate(ctx context.Context, s sink.Sink) (*GenerateResult, error) {
	return Generate(ctx, &g.cfg, s)
}

// Check compares the files a run would produce with those in dir.
// Nothing is written.
func (g *Generator) Check(ctx context.Context, dir string) (*CheckResult, error) {
	g.cfg.OutDir = dir
	return Check(ctx, &g.cfg)
}
