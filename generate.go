package jsvgen

import (
	"context"
	"fmt"
	"time"

	"github.com/opencontainers/go-digest"
	slogctx "github.com/veqryn/slog-context"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/broady/jsvgen/compiler"
	"github.com/broady/jsvgen/internal/fetch"
	"github.com/broady/jsvgen/internal/metaschema"
	"github.com/broady/jsvgen/internal/validate"
	"github.com/broady/jsvgen/jsonrt"
	"github.com/broady/jsvgen/schema"
	"github.com/broady/jsvgen/sink"
)

// GenerateResult describes a completed run.
type GenerateResult struct {
	// Package is the package clause of the generated files.
	Package string `json:"package" yaml:"package"`
	// Files lists written file names relative to the output directory,
	// validators file first.
	Files []string `json:"files" yaml:"files"`
	// Schemas follows document order.
	Schemas []compiler.SchemaSummary `json:"schemas" yaml:"schemas"`
	// Ignored lists schema names matched by an ignore pattern.
	Ignored []string `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	// Digest identifies the compiled schemas independent of formatting.
	Digest digest.Digest `json:"digest" yaml:"digest"`
}

// CheckResult is the outcome of Check.
type CheckResult struct {
	*GenerateResult
	Drift []sink.Drift `json:"drift" yaml:"drift"`
}

// Stale reports whether any generated file is missing or differs on disk.
func (r *CheckResult) Stale() bool {
	for _, d := range r.Drift {
		if d.Status != sink.StatusUpToDate {
			return true
		}
	}
	return false
}

// Generate runs the pipeline for cfg and writes every generated file to s.
// File names passed to s are relative; cfg.OutDir only feeds the package
// name default. Nothing is written unless every schema compiles.
func Generate(ctx context.Context, cfg *Config, s sink.Sink) (*GenerateResult, error) {
	return run(ctx, "generate", cfg, s)
}

// Check runs the pipeline for cfg and compares its output with the files in
// cfg.OutDir without writing anything.
func Check(ctx context.Context, cfg *Config) (*CheckResult, error) {
	cfg = applyConfigDefaults(cfg)
	cmp := sink.NewCompare(cfg.OutDir)
	res, err := run(ctx, "check", cfg, cmp)
	if err != nil {
		return nil, err
	}
	return &CheckResult{GenerateResult: res, Drift: cmp.Results()}, nil
}

// ConfigError reports an invalid Config. Fields maps each offending field
// to a description of the rule it broke.
type ConfigError struct {
	Message string
	Fields  map[string]string
	err     error
}

func (e *ConfigError) Error() string { return "invalid config: " + e.Message }

func (e *ConfigError) Unwrap() error { return e.err }

// ParseError reports a document that is not valid JSON or YAML.
type ParseError struct {
	Source string
	err    error
}

func (e *ParseError) Error() string { return "parse " + e.Source + ": " + e.err.Error() }

func (e *ParseError) Unwrap() error { return e.err }

// Validate applies defaults to cfg and checks the result.
func Validate(cfg *Config) error {
	err := validate.Struct(applyConfigDefaults(cfg))
	if err == nil {
		return nil
	}
	msg, fields, ok := validate.Describe(err)
	if !ok {
		return fmt.Errorf("invalid config: %w", err)
	}
	return &ConfigError{Message: msg, Fields: fields, err: err}
}

func run(ctx context.Context, mode string, cfg *Config, s sink.Sink) (res *GenerateResult, err error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	cfg = applyConfigDefaults(cfg)

	tel := newTelemetry(cfg.TracerProvider, cfg.MeterProvider)
	start := time.Now()
	ctx, span := tel.tracer.Start(ctx, "jsvgen.generate", trace.WithAttributes(
		attribute.String("jsvgen.mode", mode),
		attribute.String("jsvgen.source", cfg.sourceName()),
		attribute.String("jsvgen.package", cfg.Package),
	))
	defer span.End()
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Schemas)
		}
		tel.record(ctx, mode, start, n, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	p := &pipeline{cfg: cfg, tel: tel}
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	if err := p.compile(ctx); err != nil {
		return nil, err
	}
	if err := p.render(ctx); err != nil {
		return nil, err
	}
	if err := p.write(ctx, s); err != nil {
		return nil, err
	}

	res = &GenerateResult{
		Package: cfg.Package,
		Files:   p.names,
		Schemas: p.result.Schemas,
		Ignored: p.result.Ignored,
		Digest:  p.digest,
	}
	slogctx.FromCtx(ctx).InfoContext(ctx, "generated validators",
		"mode", mode,
		"source", cfg.sourceName(),
		"package", cfg.Package,
		"schemas", len(res.Schemas),
		"ignored", len(res.Ignored),
		"files", len(res.Files),
		"digest", res.Digest.String(),
		"duration", time.Since(start))
	return res, nil
}

// pipeline carries state between the stages of one run.
type pipeline struct {
	cfg *Config
	tel *telemetry

	doc    *schema.Document
	keep   func(string) bool
	result *compiler.DocumentResult
	digest digest.Digest

	names []string
	files map[string][]byte
}

func (p *pipeline) load(ctx context.Context) error {
	data := p.cfg.Document
	if data == nil {
		err := p.tel.stage(ctx, "fetch", func(ctx context.Context) error {
			f := &fetch.Fetcher{Client: p.cfg.HTTPClient}
			var err error
			data, err = f.Fetch(ctx, p.cfg.Source)
			return err
		})
		if err != nil {
			return err
		}
	}

	return p.tel.stage(ctx, "parse", func(ctx context.Context) error {
		tree, err := schema.Parse(data, p.cfg.Format)
		if err != nil {
			return &ParseError{Source: p.cfg.sourceName(), err: err}
		}
		p.doc = schema.NewDocument(tree)
		return nil
	})
}

func (p *pipeline) compile(ctx context.Context) error {
	ignored, err := compiler.Ignorer(p.cfg.Ignore)
	if err != nil {
		return err
	}
	p.keep = func(name string) bool { return !ignored(name) }

	if p.cfg.Strict {
		err := p.tel.stage(ctx, "metaschema", func(ctx context.Context) error {
			section, err := p.doc.Section(p.cfg.SchemaPath)
			if err != nil {
				return err
			}
			v, err := metaschema.Default()
			if err != nil {
				return err
			}
			return v.ValidateSection(section, p.keep)
		})
		if err != nil {
			return err
		}
	}

	return p.tel.stage(ctx, "compile", func(ctx context.Context) error {
		res, err := compiler.CompileDocument(ctx, p.doc, compiler.Options{
			SchemaPath:       p.cfg.SchemaPath,
			Ignore:           p.cfg.Ignore,
			ExportValidators: p.cfg.ExportValidators,
			Concurrency:      p.cfg.Concurrency,
		})
		if err != nil {
			return err
		}
		p.result = res
		return nil
	})
}

func (p *pipeline) render(ctx context.Context) error {
	return p.tel.stage(ctx, "render", func(ctx context.Context) error {
		section, err := p.doc.Section(p.cfg.SchemaPath)
		if err != nil {
			return err
		}
		p.digest, err = SourceDigest(section, p.keep)
		if err != nil {
			return err
		}

		src, err := compiler.Render(p.result.Result, compiler.RenderOptions{
			Package: p.cfg.Package,
			Header:  header(p.digest),
		})
		if err != nil {
			return err
		}
		p.files = map[string][]byte{p.cfg.OutFile: src}
		p.names = []string{p.cfg.OutFile}
		if p.cfg.WithoutRuntime {
			return nil
		}

		runtime, err := jsonrt.Sources(p.cfg.Package)
		if err != nil {
			return err
		}
		for _, file := range jsonrt.Files {
			name := jsonrt.OutputName(file)
			if name == p.cfg.OutFile {
				return fmt.Errorf("output file %s collides with a runtime file", name)
			}
			p.files[name] = runtime[name]
			p.names = append(p.names, name)
		}
		return nil
	})
}

func (p *pipeline) write(ctx context.Context, s sink.Sink) error {
	return p.tel.stage(ctx, "write", func(ctx context.Context) error {
		for _, name := range p.names {
			if err := s.WriteFile(ctx, name, p.files[name]); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
		}
		return nil
	})
}
