package schema

import (
	"errors"
	"reflect"
	"testing"
)

func decodeJSON(t *testing.T, doc string) (Node, error) {
	t.Helper()
	v, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	return Decode(v)
}

func TestDecodeObject(t *testing.T) {
	node, err := decodeJSON(t, `{
		"type": "object",
		"required": ["id"],
		"properties": {
			"id": {"type": "integer", "minimum": 1},
			"tags": {"type": "array", "items": {"type": "string"}, "minItems": 0, "maxItems": 3},
			"owner": {"$ref": "#/definitions/User", "type": "string"}
		},
		"additionalProperties": {"type": "number", "maximum": "99.5"}
	}`)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	obj, ok := node.(*Object)
	if !ok {
		t.Fatalf("Decode() = %T, want *Object", node)
	}

	if got, want := obj.PropertyNames(), []string{"id", "tags", "owner"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PropertyNames() = %v, want %v", got, want)
	}
	if !obj.IsRequired("id") || obj.IsRequired("tags") {
		t.Errorf("required set = %v, want only id", obj.Required)
	}

	id, _ := obj.Properties.Get("id")
	if got := id.(*Integer); got.Minimum != "1" || got.Maximum != "" {
		t.Errorf("id bounds = %q..%q, want 1..", got.Minimum, got.Maximum)
	}

	tags, _ := obj.Properties.Get("tags")
	arr := tags.(*Array)
	if arr.MinItems == nil || *arr.MinItems != 0 {
		t.Errorf("tags.MinItems = %v, want 0", arr.MinItems)
	}
	if arr.MaxItems == nil || *arr.MaxItems != 3 {
		t.Errorf("tags.MaxItems = %v, want 3", arr.MaxItems)
	}
	if arr.Items.Kind() != KindString {
		t.Errorf("tags.Items.Kind() = %q, want string", arr.Items.Kind())
	}

	owner, _ := obj.Properties.Get("owner")
	if ref, ok := owner.(*Ref); !ok || ref.Path != "#/definitions/User" {
		t.Errorf("owner = %#v, want *Ref to #/definitions/User", owner)
	}

	ap, ok := obj.AdditionalProperties.(*Number)
	if !ok || ap.Maximum != "99.5" {
		t.Errorf("AdditionalProperties = %#v, want *Number with maximum 99.5", obj.AdditionalProperties)
	}
}

func TestDecodeString(t *testing.T) {
	node, err := decodeJSON(t, `{"type": "string", "minLength": 2, "enum": ["b", "a"], "format": "hex"}`)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	s := node.(*String)
	if s.MinLength == nil || *s.MinLength != 2 || s.MaxLength != nil {
		t.Errorf("lengths = %v/%v, want 2/nil", s.MinLength, s.MaxLength)
	}
	if !reflect.DeepEqual(s.Enum, []string{"b", "a"}) {
		t.Errorf("Enum = %v, want [b a]", s.Enum)
	}
	if s.Format != StringHex {
		t.Errorf("Format = %q, want hex", s.Format)
	}
}

func TestDecodeAdditionalPropertiesIgnored(t *testing.T) {
	for _, doc := range []string{
		`{"type": "object", "additionalProperties": true}`,
		`{"type": "object", "additionalProperties": false}`,
		`{"type": "object", "additionalProperties": {}}`,
	} {
		node, err := decodeJSON(t, doc)
		if err != nil {
			t.Fatalf("Decode(%s) error = %v", doc, err)
		}
		if ap := node.(*Object).AdditionalProperties; ap != nil {
			t.Errorf("Decode(%s).AdditionalProperties = %#v, want nil", doc, ap)
		}
	}
}

func TestDecodeZeroBoundsArePresent(t *testing.T) {
	node, err := decodeJSON(t, `{"type": "integer", "minimum": 0, "maximum": 0}`)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	i := node.(*Integer)
	if i.Minimum != "0" || i.Maximum != "0" {
		t.Errorf("bounds = %q..%q, want 0..0", i.Minimum, i.Maximum)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"no type", `{"properties": {}}`, ErrUnknownSchemaType},
		{"unknown type", `{"type": "null"}`, ErrUnknownSchemaType},
		{"type list", `{"type": ["string", "null"]}`, ErrUnknownSchemaType},
		{"nested unknown type", `{"type": "object", "properties": {"a": {"type": "tuple"}}}`, ErrUnknownSchemaType},
		{"not an object", `"string"`, ErrInvalidSchemaValue},
		{"array without items", `{"type": "array"}`, ErrInvalidSchemaValue},
		{"negative minLength", `{"type": "string", "minLength": -1}`, ErrInvalidSchemaValue},
		{"fractional maxItems", `{"type": "array", "items": {"type": "string"}, "maxItems": 1.5}`, ErrInvalidSchemaValue},
		{"enum of numbers", `{"type": "string", "enum": [1, 2]}`, ErrInvalidSchemaValue},
		{"required not a list", `{"type": "object", "required": "a"}`, ErrInvalidSchemaValue},
		{"fractional integer bound", `{"type": "integer", "minimum": 1.5}`, ErrInvalidSchemaValue},
		{"garbage number bound", `{"type": "number", "maximum": "lots"}`, ErrInvalidSchemaValue},
		{"ref not a string", `{"$ref": 5}`, ErrInvalidSchemaValue},
		{"properties not an object", `{"type": "object", "properties": []}`, ErrInvalidSchemaValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeJSON(t, tt.doc)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode(%s) error = %v, want %v", tt.doc, err, tt.want)
			}
		})
	}
}

func TestDecodeErrorPath(t *testing.T) {
	_, err := decodeJSON(t, `{"type": "object", "properties": {"a/b": {"type": "tuple"}}}`)
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("Decode() error = %v, want *Error", err)
	}
	if serr.Path != "#/properties/a~1b" {
		t.Errorf("Error.Path = %q, want %q", serr.Path, "#/properties/a~1b")
	}
}

func TestErrorFormatting(t *testing.T) {
	err := Errorf(CodeUnresolvedReference, "#/definitions/X", "invalid reference %q", "#/definitions/X").WithSchema("Pet")
	want := `unresolved_reference in schema "Pet" at "#/definitions/X": invalid reference "#/definitions/X"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// The innermost attribution wins.
	if got := err.WithSchema("Outer").Schema; got != "Pet" {
		t.Errorf("WithSchema().Schema = %q, want Pet", got)
	}
	if errors.Is(err, ErrDuplicateName) {
		t.Error("errors.Is(unresolved, ErrDuplicateName) = true, want false")
	}
}
