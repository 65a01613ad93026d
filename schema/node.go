// Package schema models the subset of JSON Schema that jsvgen compiles.
//
// Documents are parsed into an order-preserving tree (see Parse), and
// individual schemas are decoded from that tree into a closed set of Node
// variants. Nodes are immutable once decoded.
package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the tag of a schema node.
type Kind string

const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindRef     Kind = "$ref"
)

// IsPrimitive reports whether k is one of string, number, integer or boolean.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindString, KindNumber, KindInteger, KindBoolean:
		return true
	}
	return false
}

// Node is a decoded schema. The set of implementations is closed.
type Node interface {
	Kind() Kind
	node()
}

// Object is an object schema.
type Object struct {
	// Properties in declaration order. Nil when the schema declares none.
	Properties *orderedmap.OrderedMap[string, Node]
	Required   map[string]bool
	// AdditionalProperties is nil unless the schema declares a sub-schema.
	AdditionalProperties Node
}

// Array is an array schema.
type Array struct {
	Items    Node
	MinItems *int
	MaxItems *int
}

// StringFormat is the value of a string schema's format keyword.
type StringFormat string

const (
	StringInteger  StringFormat = "integer"
	StringNumber   StringFormat = "number"
	StringHex      StringFormat = "hex"
	StringDateTime StringFormat = "date-time"
)

// String is a string schema.
type String struct {
	MinLength *int
	MaxLength *int
	// Enum is nil when the schema has no enum keyword.
	Enum []string
	// Format holds the raw format keyword. Unrecognized values are kept and ignored.
	Format StringFormat
}

// Number is a number schema. Bounds are decimal strings, empty when absent.
type Number struct {
	Minimum string
	Maximum string
}

// Integer is an integer schema. Bounds are integer strings, empty when absent.
type Integer struct {
	Minimum string
	Maximum string
}

// Boolean is a boolean schema.
type Boolean struct{}

// Ref points at another schema in the same document.
type Ref struct {
	Path string
}

func (*Object) Kind() Kind  { return KindObject }
func (*Array) Kind() Kind   { return KindArray }
func (*String) Kind() Kind  { return KindString }
func (*Number) Kind() Kind  { return KindNumber }
func (*Integer) Kind() Kind { return KindInteger }
func (*Boolean) Kind() Kind { return KindBoolean }
func (*Ref) Kind() Kind     { return KindRef }

func (*Object) node()  {}
func (*Array) node()   {}
func (*String) node()  {}
func (*Number) node()  {}
func (*Integer) node() {}
func (*Boolean) node() {}
func (*Ref) node()     {}

// IsRequired reports whether name is listed in the required set.
func (o *Object) IsRequired(name string) bool {
	return o.Required[name]
}

// HasProperties reports whether the object declares at least one property.
func (o *Object) HasProperties() bool {
	return o.Properties != nil && o.Properties.Len() > 0
}

// PropertyNames returns the declared property names in order.
func (o *Object) PropertyNames() []string {
	if o.Properties == nil {
		return nil
	}
	names := make([]string, 0, o.Properties.Len())
	for pair := o.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}
