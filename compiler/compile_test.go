package compiler

import (
	"errors"
	"slices"
	"testing"

	"github.com/broady/jsvgen/schema"
)

func mustDoc(t *testing.T, src string) *schema.Document {
	t.Helper()
	root, err := schema.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	return schema.NewDocument(root)
}

func mustNode(t *testing.T, src string) schema.Node {
	t.Helper()
	root, err := schema.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	node, err := schema.Decode(root)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return node
}

const refsDoc = `{
	"Pet": {"type": "object", "properties": {"name": {"type": "string"}}},
	"Id": {"type": "string", "format": "integer"},
	"Alias": {"$ref": "#/Pet"},
	"Loop": {"type": "array", "items": {"$ref": "#/Loop"}},
	"Ping": {"$ref": "#/Pong"},
	"Pong": {"type": "array", "items": {"$ref": "#/Ping"}}
}`

func TestTypeOf(t *testing.T) {
	c := New(mustDoc(t, refsDoc), Config{})

	tests := []struct {
		schema string
		want   string
	}{
		{`{"type": "object"}`, "*Thing"},
		{`{"type": "boolean"}`, "bool"},
		{`{"type": "string"}`, "string"},
		{`{"type": "string", "format": "integer"}`, "*big.Int"},
		{`{"type": "string", "format": "number"}`, "decimal.Decimal"},
		{`{"type": "string", "format": "hex"}`, "[]byte"},
		{`{"type": "string", "format": "date-time"}`, "time.Time"},
		{`{"type": "string", "format": "email"}`, "string"},
		{`{"type": "integer"}`, "*big.Int"},
		{`{"type": "number"}`, "decimal.Decimal"},
		{`{"type": "array", "items": {"type": "string"}}`, "[]string"},
		{`{"type": "array", "items": {"type": "object"}}`, "[]*ThingItem"},
		{`{"type": "array", "items": {"type": "array", "items": {"type": "object"}}}`, "[][]*ThingItemItem"},
		{`{"type": "array", "items": {"$ref": "#/Pet"}}`, "[]*Pet"},
		{`{"$ref": "#/Pet"}`, "*Pet"},
		{`{"$ref": "#/Id"}`, "*big.Int"},
		{`{"$ref": "#/Alias"}`, "*Pet"},
	}

	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			got, err := c.TypeOf("Thing", mustNode(t, tt.schema))
			if err != nil {
				t.Fatalf("TypeOf() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("TypeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeOfErrors(t *testing.T) {
	c := New(mustDoc(t, refsDoc), Config{})

	tests := []struct {
		name   string
		schema string
		want   error
	}{
		{"unresolved", `{"$ref": "#/Missing"}`, schema.ErrUnresolvedReference},
		{"self cycle", `{"$ref": "#/Loop"}`, schema.ErrCyclicReference},
		{"mutual cycle", `{"$ref": "#/Ping"}`, schema.ErrCyclicReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.TypeOf("Thing", mustNode(t, tt.schema))
			if !errors.Is(err, tt.want) {
				t.Errorf("TypeOf() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTypeOfNil(t *testing.T) {
	c := New(mustDoc(t, `{}`), Config{})
	if _, err := c.TypeOf("X", nil); !errors.Is(err, schema.ErrUnknownSchemaType) {
		t.Errorf("TypeOf(nil) error = %v, want %v", err, schema.ErrUnknownSchemaType)
	}
}

func TestCompilePrimitive(t *testing.T) {
	c := New(mustDoc(t, `{}`), Config{})

	tests := []struct {
		schema    string
		want      string
		constants []Constant
	}{
		{`{"type": "boolean"}`, "validateBoolean(v)", nil},
		{`{"type": "string"}`, "validateString(v, -1, -1, nil)", nil},
		{`{"type": "string", "minLength": 0, "maxLength": 4}`, "validateString(v, 0, 4, nil)", nil},
		{
			`{"type": "string", "enum": ["a", "b"]}`,
			"validateString(v, -1, -1, SEnumSet)",
			[]Constant{{Name: "SEnumSet", Values: []string{"a", "b"}}},
		},
		{`{"type": "string", "format": "integer"}`, "validateStringResultInteger(validateString(v, -1, -1, nil))", nil},
		{`{"type": "string", "format": "number"}`, "validateStringResultNumber(validateString(v, -1, -1, nil))", nil},
		{`{"type": "string", "format": "hex"}`, "validateBytesFromStringResult(validateString(v, -1, -1, nil))", nil},
		{`{"type": "string", "format": "date-time"}`, "validateDateTimeFromStringResult(validateString(v, -1, -1, nil))", nil},
		{`{"type": "integer"}`, "validateInteger(v, nil, nil)", nil},
		{`{"type": "integer", "minimum": 0, "maximum": "100000000000000000000"}`, `validateInteger(v, bigIntFromString("0"), bigIntFromString("100000000000000000000"))`, nil},
		{`{"type": "number", "minimum": -1.5}`, `validateNumber(v, bigDecimalFromString("-1.5"), nil)`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			got, constants, err := c.CompilePrimitive("v", "S", mustNode(t, tt.schema))
			if err != nil {
				t.Fatalf("CompilePrimitive() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CompilePrimitive() = %q, want %q", got, tt.want)
			}
			if !slices.EqualFunc(constants, tt.constants, func(a, b Constant) bool {
				return a.Name == b.Name && slices.Equal(a.Values, b.Values)
			}) {
				t.Errorf("CompilePrimitive() constants = %v, want %v", constants, tt.constants)
			}
		})
	}
}

func TestCompilePrimitiveRejectsComposite(t *testing.T) {
	c := New(mustDoc(t, `{}`), Config{})
	for _, src := range []string{`{"type": "object"}`, `{"type": "array", "items": {"type": "string"}}`, `{"$ref": "#/X"}`} {
		_, _, err := c.CompilePrimitive("v", "S", mustNode(t, src))
		if !errors.Is(err, schema.ErrUnknownPrimitiveType) {
			t.Errorf("CompilePrimitive(%s) error = %v, want %v", src, err, schema.ErrUnknownPrimitiveType)
		}
	}
}

func TestEmitClass(t *testing.T) {
	c := New(mustDoc(t, refsDoc), Config{})
	obj := mustNode(t, `{
		"type": "object",
		"required": ["id", "pet", "tags"],
		"properties": {
			"id": {"type": "integer"},
			"pet": {"$ref": "#/Pet"},
			"tags": {"type": "array", "items": {"type": "string"}},
			"nick": {"type": "string"},
			"owner": {"type": "object"},
			"2fa": {"type": "boolean"}
		},
		"additionalProperties": {"type": "number"}
	}`).(*schema.Object)

	class, err := c.EmitClass("Card", obj)
	if err != nil {
		t.Fatalf("EmitClass() error = %v", err)
	}
	if class.Name != "Card" || class.Constructor != "newCard" {
		t.Errorf("EmitClass() = %s/%s, want Card/newCard", class.Name, class.Constructor)
	}

	want := []Field{
		{Name: "Id", JSONName: "id", Type: "*big.Int", Default: "new(big.Int)"},
		{Name: "Pet", JSONName: "pet", Type: "*Pet", Default: "newPet()"},
		{Name: "Tags", JSONName: "tags", Type: "[]string", Default: "[]string{}"},
		{Name: "Nick", JSONName: "nick", Type: "*string", Default: "nil", Boxed: true},
		{Name: "Owner", JSONName: "owner", Type: "*Card_owner", Default: "nil"},
		{Name: "X_2fa", JSONName: "2fa", Type: "*bool", Default: "nil", Boxed: true},
		{Name: "AdditionalProperties", Type: "*orderedmap.OrderedMap[string, decimal.Decimal]", Default: "orderedmap.New[string, decimal.Decimal]()"},
	}
	if !slices.Equal(class.Fields, want) {
		t.Errorf("EmitClass() fields =\n%+v\nwant\n%+v", class.Fields, want)
	}
}

func TestEmitClassRequiredObjectDefaults(t *testing.T) {
	doc := mustDoc(t, `{
		"Node": {"type": "object", "required": ["next"], "properties": {"next": {"$ref": "#/Node"}}},
		"A": {"type": "object", "required": ["b"], "properties": {"b": {"$ref": "#/B"}}},
		"B": {"type": "object", "required": ["a"], "properties": {"a": {"$ref": "#/A"}}},
		"Wrapper": {"type": "object", "required": ["inner", "alias"], "properties": {
			"inner": {"type": "object", "required": ["deep"], "properties": {"deep": {"type": "object"}}},
			"alias": {"$ref": "#/PetAlias"}
		}},
		"Pet": {"type": "object", "properties": {"name": {"type": "string"}}},
		"PetAlias": {"$ref": "#/Pet"}
	}`)
	c := New(doc, Config{})

	tests := []struct {
		schema string
		want   []string
	}{
		{"Node", []string{"&Node{}"}},
		{"A", []string{"&B{}"}},
		{"Wrapper", []string{"newWrapper_inner()", "newPet()"}},
	}
	for _, tt := range tests {
		node, err := doc.Resolve("#/" + tt.schema)
		if err != nil {
			t.Fatal(err)
		}
		class, err := c.EmitClass(tt.schema, node.(*schema.Object))
		if err != nil {
			t.Fatalf("EmitClass(%s) error = %v", tt.schema, err)
		}
		var got []string
		for _, f := range class.Fields {
			got = append(got, f.Default)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("EmitClass(%s) defaults = %v, want %v", tt.schema, got, tt.want)
		}
	}
}

func TestEmitClassFieldCollision(t *testing.T) {
	c := New(mustDoc(t, `{}`), Config{})
	tests := []string{
		`{"type": "object", "properties": {"a-b": {"type": "string"}, "a_b": {"type": "string"}}}`,
		`{"type": "object", "properties": {"additionalProperties": {"type": "string"}}, "additionalProperties": {"type": "string"}}`,
	}
	for _, src := range tests {
		_, err := c.EmitClass("X", mustNode(t, src).(*schema.Object))
		if !errors.Is(err, schema.ErrDuplicateName) {
			t.Errorf("EmitClass(%s) error = %v, want %v", src, err, schema.ErrDuplicateName)
		}
	}
}

func functionNames(r *Result) []string {
	var names []string
	for _, fn := range r.Functions {
		names = append(names, fn.Name)
	}
	return names
}

func TestCompileOrdering(t *testing.T) {
	c := New(mustDoc(t, refsDoc), Config{})
	node := mustNode(t, `{
		"type": "object",
		"properties": {
			"a": {"type": "object", "properties": {"deep": {"type": "object"}}},
			"b": {"type": "array", "items": {"type": "object", "properties": {"e": {"type": "string", "enum": ["x"]}}}},
			"c": {"$ref": "#/Pet"},
			"d": {"type": "string", "enum": ["y"]}
		},
		"additionalProperties": {"type": "array", "items": {"type": "integer"}}
	}`)

	r, err := c.Compile("Root", node)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	wantFuncs := []string{
		"validateRoot",
		"validateRootAdditionalProperties",
		"validateRootAdditionalPropertiesItem",
		"validateRoot_a",
		"validateRoot_a_deep",
		"validateRoot_b",
		"validateRoot_bItem",
	}
	if got := functionNames(r); !slices.Equal(got, wantFuncs) {
		t.Errorf("functions = %v, want %v", got, wantFuncs)
	}

	var classes []string
	for _, class := range r.Classes {
		classes = append(classes, class.Name)
	}
	if want := []string{"Root", "Root_a", "Root_a_deep", "Root_bItem"}; !slices.Equal(classes, want) {
		t.Errorf("classes = %v, want %v", classes, want)
	}

	var constants []string
	for _, k := range r.Constants {
		constants = append(constants, k.Name)
	}
	if want := []string{"RootPropertiesSet", "Root_bItem_eEnumSet", "Root_dEnumSet"}; !slices.Equal(constants, want) {
		t.Errorf("constants = %v, want %v", constants, want)
	}

	body := r.Functions[0].Object
	if body == nil {
		t.Fatal("validateRoot has no object body")
	}
	if got := body.Properties[2].Call; got != "validatePet(propJSON)" {
		t.Errorf("ref property call = %q, want validatePet(propJSON)", got)
	}
	if got := body.AdditionalProperties.Exclude; got != "RootPropertiesSet" {
		t.Errorf("additional properties exclude = %q, want RootPropertiesSet", got)
	}
}

func TestCompileArrayAndAlias(t *testing.T) {
	c := New(mustDoc(t, refsDoc), Config{ExportValidators: true})

	r, err := c.Compile("List", mustNode(t, `{"type": "array", "minItems": 1, "maxItems": 2, "items": {"$ref": "#/Pet"}}`))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(r.Functions) != 1 {
		t.Fatalf("functions = %v, want only ValidateList", functionNames(r))
	}
	fn := r.Functions[0]
	if fn.Name != "ValidateList" || fn.ResultType != "[]*Pet" || fn.Return != "validateArray(json, 1, 2, ValidatePet)" {
		t.Errorf("Compile() = %+v", fn)
	}

	r, err = c.Compile("Alias", mustNode(t, `{"$ref": "#/Pet"}`))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if fn := r.Functions[0]; fn.ResultType != "*Pet" || fn.Return != "ValidatePet(json)" {
		t.Errorf("Compile(alias) = %+v", fn)
	}
}

func TestCompileErrorAttribution(t *testing.T) {
	c := New(mustDoc(t, `{}`), Config{})
	node := mustNode(t, `{"type": "object", "properties": {"child": {"type": "object", "properties": {"x": {"$ref": "#/Nope"}}}}}`)

	_, err := c.Compile("Parent", node)
	var e *schema.Error
	if !errors.As(err, &e) {
		t.Fatalf("Compile() error = %v, want *schema.Error", err)
	}
	if e.Code != schema.CodeUnresolvedReference {
		t.Errorf("Code = %s, want %s", e.Code, schema.CodeUnresolvedReference)
	}
	if e.Schema != "Parent_child_x" {
		t.Errorf("Schema = %q, want Parent_child_x", e.Schema)
	}
}

func TestCompileRecursiveObject(t *testing.T) {
	doc := mustDoc(t, `{"Node": {"type": "object", "properties": {"next": {"$ref": "#/Node"}, "kids": {"type": "array", "items": {"$ref": "#/Node"}}}}}`)
	node, err := doc.Resolve("#/Node")
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(doc, Config{}).Compile("Node", node)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	fields := r.Classes[0].Fields
	if fields[0].Type != "*Node" || fields[1].Type != "[]*Node" {
		t.Errorf("fields = %+v", fields)
	}
}

func TestResultMerge(t *testing.T) {
	r := &Result{
		Functions: []Function{{Name: "validateA"}},
		Constants: []Constant{{Name: "AEnumSet"}},
	}
	r.Merge(&Result{
		Functions: []Function{{Name: "validateB"}, {Name: "validateC"}},
		Classes:   []Class{{Name: "B"}},
	})
	r.Merge(nil)

	var fns []string
	for _, fn := range r.Functions {
		fns = append(fns, fn.Name)
	}
	if want := []string{"validateA", "validateB", "validateC"}; !slices.Equal(fns, want) {
		t.Errorf("Functions = %v, want %v", fns, want)
	}
	if len(r.Classes) != 1 || r.Classes[0].Name != "B" {
		t.Errorf("Classes = %v, want [B]", r.Classes)
	}
	if len(r.Constants) != 1 || r.Constants[0].Name != "AEnumSet" {
		t.Errorf("Constants = %v, want [AEnumSet]", r.Constants)
	}
}
