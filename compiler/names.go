package compiler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/broady/jsvgen/jsonrt"
)

// Go keywords.
var keywords = map[string]bool{
	"break":       true,
	"case":        true,
	"chan":        true,
	"const":       true,
	"continue":    true,
	"default":     true,
	"defer":       true,
	"else":        true,
	"fallthrough": true,
	"for":         true,
	"func":        true,
	"go":          true,
	"goto":        true,
	"if":          true,
	"import":      true,
	"interface":   true,
	"map":         true,
	"package":     true,
	"range":       true,
	"return":      true,
	"select":      true,
	"struct":      true,
	"switch":      true,
	"type":        true,
	"var":         true,
}

// Predeclared identifiers, and the locals every generated validator declares.
// A package-level name equal to one of these would be shadowed or shadow it.
var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true, "complex64": true,
	"complex128": true, "error": true, "float32": true, "float64": true, "int": true,
	"int8": true, "int16": true, "int32": true, "int64": true, "rune": true,
	"string": true, "uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "uintptr": true, "true": true, "false": true, "iota": true,
	"nil": true, "append": true, "cap": true, "clear": true, "close": true,
	"complex": true, "copy": true, "delete": true, "imag": true, "len": true,
	"make": true, "max": true, "min": true, "new": true, "panic": true,
	"print": true, "println": true, "real": true, "recover": true,

	"json": true, "value": true, "obj": true, "objResult": true, "ok": true,
	"propJSON": true, "propResult": true, "addPropertiesResult": true,
}

func isReserved(name string) bool {
	return keywords[name] || predeclared[name] || jsonrt.Identifiers()[name]
}

// escapeReserved escapes a reserved identifier by appending an underscore.
func escapeReserved(name string) string {
	for isReserved(name) {
		name += "_"
	}
	return name
}

// sanitizeIdentifier makes name a valid Go identifier.
func sanitizeIdentifier(name string) string {
	if name == "" {
		return "_"
	}

	var result strings.Builder

	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsDigit(first) {
		result.WriteRune('_')
	}

	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	return result.String()
}

// TypeIdent is the Go identifier for a schema name. It is used for struct
// names and set constants, and is the stem of validator and constructor names.
func TypeIdent(name string) string {
	return escapeReserved(sanitizeIdentifier(name))
}

// FieldIdent is the exported struct field identifier for a property name.
// Names whose first rune has no upper case form get an X prefix.
func FieldIdent(property string) string {
	s := sanitizeIdentifier(property)
	r, size := utf8.DecodeRuneInString(s)
	upper := unicode.ToUpper(r)
	if !unicode.IsUpper(upper) {
		return "X" + s
	}
	return string(upper) + s[size:]
}

func (c *Compiler) validatorIdent(name string) string {
	return escapeReserved(c.prefix + TypeIdent(name))
}

func constructorIdent(name string) string {
	return escapeReserved("new" + TypeIdent(name))
}

// Synthesized names for anonymous nested schemas. Each is a pure function of
// the parent name, so recompiling a tree always yields the same names.

func PropertyName(parent, property string) string { return parent + "_" + property }

func ItemName(parent string) string { return parent + "Item" }

func AdditionalPropertiesName(parent string) string { return parent + "AdditionalProperties" }

func EnumSetName(parent string) string { return parent + "EnumSet" }

func PropertiesSetName(parent string) string { return parent + "PropertiesSet" }
