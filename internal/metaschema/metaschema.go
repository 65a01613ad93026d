// Package metaschema checks schemas against a meta-schema describing the
// keywords and value shapes jsvgen understands.
//
// The compiler reports the first problem it meets while generating; the
// meta-schema check runs up front and reports every problem in one schema.
package metaschema

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/broady/jsvgen/schema"
)

// URL identifies the embedded meta-schema.
const URL = "https://jsvgen.dev/schemas/subset.json"

//go:embed subset.json
var subset []byte

// Validator validates schema trees against the embedded meta-schema.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the embedded meta-schema.
func New() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(subset))
	if err != nil {
		return nil, fmt.Errorf("parse meta-schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(URL, doc); err != nil {
		return nil, fmt.Errorf("add meta-schema: %w", err)
	}
	sch, err := c.Compile(URL)
	if err != nil {
		return nil, fmt.Errorf("compile meta-schema: %w", err)
	}
	return &Validator{schema: sch}, nil
}

// Default is the shared Validator.
var Default = sync.OnceValues(New)

// Validate checks one named schema tree, as produced by schema.Parse.
// Violations are reported as an InvalidSchemaValue *schema.Error located at
// the first failing keyword.
func (v *Validator) Validate(name string, tree any) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode schema %q: %w", name, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode schema %q: %w", name, err)
	}

	err = v.schema.Validate(inst)
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &schema.Error{
		Code:    schema.CodeInvalidSchemaValue,
		Schema:  name,
		Path:    location(leaf.InstanceLocation),
		Message: strings.TrimSpace(ve.Error()),
	}
}

// ValidateSection checks every schema in section whose name keep accepts.
// The first failing schema in section order is reported.
func (v *Validator) ValidateSection(section *schema.Map, keep func(name string) bool) error {
	for pair := section.Oldest(); pair != nil; pair = pair.Next() {
		if keep != nil && !keep(pair.Key) {
			continue
		}
		if err := v.Validate(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

func location(segments []string) string {
	var b strings.Builder
	b.WriteString("#")
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(schema.EscapePointer(s))
	}
	return b.String()
}
