package compiler

import (
	"context"
	"fmt"
	"runtime"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/broady/jsvgen/schema"
)

const tracerName = "github.com/broady/jsvgen/compiler"

// Options configures CompileDocument.
type Options struct {
	// SchemaPath selects the object of named schemas, e.g.
	// "components/schemas". Empty selects the document root.
	SchemaPath string
	// Ignore lists glob patterns of schema names to skip.
	Ignore []string
	// ExportValidators names validators ValidateX instead of validateX.
	ExportValidators bool
	// Concurrency bounds how many schemas compile at once.
	// Zero means GOMAXPROCS.
	Concurrency int
}

// SchemaSummary describes one compiled top-level schema.
type SchemaSummary struct {
	Name      string `json:"name" yaml:"name"`
	Validator string `json:"validator" yaml:"validator"`
	Type      string `json:"type" yaml:"type"`
}

// DocumentResult is the merged output of a whole document section.
type DocumentResult struct {
	*Result
	// Schemas follows section order and excludes ignored names.
	Schemas []SchemaSummary
	// Ignored lists the section's schema names matched by an ignore pattern.
	Ignored []string
}

type entry struct {
	name    string
	raw     any
	pointer string
}

// CompileDocument compiles every schema in the selected section of doc.
//
// Schemas compile concurrently but results are merged in section order, so
// output does not depend on scheduling. If several schemas fail, the error of
// the first one in section order is returned.
func CompileDocument(ctx context.Context, doc *schema.Document, opts Options) (*DocumentResult, error) {
	section, err := doc.Section(opts.SchemaPath)
	if err != nil {
		return nil, err
	}
	ignored, err := Ignorer(opts.Ignore)
	if err != nil {
		return nil, err
	}

	out := &DocumentResult{Result: &Result{}}
	base := sectionPointer(opts.SchemaPath)
	var entries []entry
	for pair := section.Oldest(); pair != nil; pair = pair.Next() {
		if ignored(pair.Key) {
			out.Ignored = append(out.Ignored, pair.Key)
			continue
		}
		entries = append(entries, entry{
			name:    pair.Key,
			raw:     pair.Value,
			pointer: base + "/" + schema.EscapePointer(pair.Key),
		})
	}

	c := New(doc, Config{ExportValidators: opts.ExportValidators})
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer(tracerName)

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(entries))
	errs := make([]error, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			_, span := tracer.Start(gctx, "jsvgen.compile_schema",
				trace.WithAttributes(attribute.String("jsvgen.schema.name", e.name)))
			defer span.End()

			results[i], errs[i] = c.compileEntry(e)
			if errs[i] != nil {
				span.RecordError(errs[i])
				span.SetStatus(codes.Error, errs[i].Error())
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for i, e := range entries {
		out.Merge(results[i])
		fn := results[i].Functions[0]
		out.Schemas = append(out.Schemas, SchemaSummary{
			Name:      e.name,
			Validator: fn.Name,
			Type:      fn.ResultType,
		})
	}
	compiled := make(map[string]bool, len(entries))
	for _, e := range entries {
		compiled[e.pointer] = true
	}
	if err := CheckRefs(out.Result, compiled); err != nil {
		return nil, err
	}
	if err := CheckNames(out.Result); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckRefs reports an UnresolvedReference error for the first reference of
// r whose target is not one of the compiled top-level schemas, keyed by JSON
// pointer. Such a reference would call a validator that is never emitted.
func CheckRefs(r *Result, compiled map[string]bool) error {
	for _, ref := range r.Refs {
		if compiled[refPointer(ref.Path)] {
			continue
		}
		return schema.Errorf(schema.CodeUnresolvedReference, ref.Path,
			"reference target is not a compiled schema of the selected section (ignored or outside it)").WithSchema(ref.From)
	}
	return nil
}

func (c *Compiler) compileEntry(e entry) (*Result, error) {
	node, err := schema.DecodeAt(e.raw, e.pointer)
	if err != nil {
		return nil, withSchema(err, e.name)
	}
	res, err := c.Compile(e.name, node)
	if err != nil {
		return nil, withSchema(err, e.name)
	}
	return res, nil
}

// CheckNames reports a DuplicateName error if two package-level
// declarations of r share an identifier.
func CheckNames(r *Result) error {
	owners := map[string]string{}
	claim := func(name, owner string) error {
		if prev, ok := owners[name]; ok {
			return schema.Errorf(schema.CodeDuplicateName, "", "identifier %s is declared by both %s and %s", name, prev, owner)
		}
		owners[name] = owner
		return nil
	}
	for _, class := range r.Classes {
		if err := claim(class.Name, "type "+class.Name); err != nil {
			return err
		}
		if err := claim(class.Constructor, "constructor of "+class.Name); err != nil {
			return err
		}
	}
	for _, fn := range r.Functions {
		if err := claim(fn.Name, fmt.Sprintf("validator of %q", fn.SchemaName)); err != nil {
			return err
		}
	}
	for _, k := range r.Constants {
		if err := claim(k.Name, "set "+k.Name); err != nil {
			return err
		}
	}
	return nil
}

// Ignorer compiles glob patterns into a predicate reporting whether a
// schema name matches any of them.
func Ignorer(patterns []string) (func(name string) bool, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return func(name string) bool {
		for _, g := range globs {
			if g.Match(name) {
				return true
			}
		}
		return false
	}, nil
}

func refPointer(ref string) string {
	var p string
	for _, seg := range schema.SplitRef(ref) {
		p += "/" + schema.EscapePointer(seg)
	}
	return "#" + p
}

func sectionPointer(path string) string {
	var p string
	for _, seg := range schema.SplitSectionPath(path) {
		p += "/" + schema.EscapePointer(seg)
	}
	return "#" + p
}
