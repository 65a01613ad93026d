package compiler

// Result is the compiled output for one schema tree: validator functions,
// struct declarations and set constants, each kept in emission order.
type Result struct {
	Functions []Function
	Classes   []Class
	Constants []Constant
	// Refs lists the references whose target validators the functions call.
	Refs []Reference
}

// Merge appends other's artifacts to r, preserving order.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Functions = append(r.Functions, other.Functions...)
	r.Classes = append(r.Classes, other.Classes...)
	r.Constants = append(r.Constants, other.Constants...)
	r.Refs = append(r.Refs, other.Refs...)
}

// Function is a generated validator: func Name(json *JSONValue) Result[ResultType].
// Exactly one of Object and Return is set.
type Function struct {
	Name       string
	SchemaName string
	ResultType string

	// Object is the step list of an object validator.
	Object *ObjectBody
	// Return is the single expression an array, primitive or alias validator returns.
	Return string
}

// ObjectBody describes how an object validator fills its struct.
type ObjectBody struct {
	Constructor string
	// AdditionalProperties is nil when the schema declares none.
	AdditionalProperties *MapStep
	Properties           []PropertyStep
}

// MapStep maps the undeclared keys of an object through Validator.
type MapStep struct {
	// Exclude is the declared-properties set constant, or "nil".
	Exclude   string
	Validator string
	Field     string
}

// PropertyStep extracts, validates and assigns one declared property.
type PropertyStep struct {
	JSONName string
	Field    string
	Required bool
	// Call is the validation expression; it refers to the property as propJSON.
	Call string
	// Boxed fields hold a pointer to the validated value.
	Boxed bool
}

// Class is a generated struct with its constructor.
type Class struct {
	Name        string
	Constructor string
	Fields      []Field
}

// Field is one struct field. JSONName is empty for the additional
// properties map, which is not serialized under a key of its own.
type Field struct {
	Name     string
	JSONName string
	Type     string
	Default  string
	Boxed    bool
}

// Reference is a $ref compiled into a call to the target's validator.
// From names the schema holding the reference.
type Reference struct {
	From string
	Path string
}

// Constant is a package-level string set built with toSet.
type Constant struct {
	Name   string
	Values []string
}
