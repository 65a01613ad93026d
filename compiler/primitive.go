package compiler

import (
	"fmt"
	"strconv"

	"github.com/broady/jsvgen/schema"
)

// CompilePrimitive returns the runtime call validating valueExpr against a
// primitive schema, plus any set constants the call refers to.
func (c *Compiler) CompilePrimitive(valueExpr, schemaName string, node schema.Node) (string, []Constant, error) {
	switch n := node.(type) {
	case *schema.Boolean:
		return "validateBoolean(" + valueExpr + ")", nil, nil

	case *schema.String:
		var constants []Constant
		enum := "nil"
		if n.Enum != nil {
			enum = TypeIdent(EnumSetName(schemaName))
			constants = append(constants, Constant{Name: enum, Values: n.Enum})
		}
		call := fmt.Sprintf("validateString(%s, %s, %s, %s)", valueExpr, countArg(n.MinLength), countArg(n.MaxLength), enum)
		switch n.Format {
		case schema.StringInteger:
			call = "validateStringResultInteger(" + call + ")"
		case schema.StringNumber:
			call = "validateStringResultNumber(" + call + ")"
		case schema.StringHex:
			call = "validateBytesFromStringResult(" + call + ")"
		case schema.StringDateTime:
			call = "validateDateTimeFromStringResult(" + call + ")"
		}
		return call, constants, nil

	case *schema.Integer:
		call := fmt.Sprintf("validateInteger(%s, %s, %s)", valueExpr,
			boundArg("bigIntFromString", n.Minimum), boundArg("bigIntFromString", n.Maximum))
		return call, nil, nil

	case *schema.Number:
		call := fmt.Sprintf("validateNumber(%s, %s, %s)", valueExpr,
			boundArg("bigDecimalFromString", n.Minimum), boundArg("bigDecimalFromString", n.Maximum))
		return call, nil, nil
	}
	return "", nil, schema.Errorf(schema.CodeUnknownPrimitiveType, "", "expected primitive but got %q", kindOf(node)).WithSchema(schemaName)
}

// countArg renders an optional length bound; -1 means unbounded.
func countArg(n *int) string {
	if n == nil {
		return "-1"
	}
	return strconv.Itoa(*n)
}

func boundArg(parse, literal string) string {
	if literal == "" {
		return "nil"
	}
	return parse + "(" + strconv.Quote(literal) + ")"
}
