package compiler

import (
	"slices"
	"strings"

	"github.com/broady/jsvgen/schema"
)

// TypeOf returns the Go type a validator for node produces. Object schemas
// map to a pointer to the struct named after name; references map to the
// type of their target, named after the reference's last segment.
func (c *Compiler) TypeOf(name string, node schema.Node) (string, error) {
	return c.typeOf(name, node, nil)
}

func (c *Compiler) typeOf(name string, node schema.Node, refs []string) (string, error) {
	switch n := node.(type) {
	case *schema.Object:
		return "*" + TypeIdent(name), nil
	case *schema.Boolean:
		return "bool", nil
	case *schema.String:
		switch n.Format {
		case schema.StringInteger:
			return "*big.Int", nil
		case schema.StringNumber:
			return "decimal.Decimal", nil
		case schema.StringHex:
			return "[]byte", nil
		case schema.StringDateTime:
			return "time.Time", nil
		}
		return "string", nil
	case *schema.Integer:
		return "*big.Int", nil
	case *schema.Number:
		return "decimal.Decimal", nil
	case *schema.Array:
		itemName := ItemName(name)
		if _, ok := n.Items.(*schema.Object); ok {
			return "[]*" + TypeIdent(itemName), nil
		}
		item, err := c.typeOf(itemName, n.Items, refs)
		if err != nil {
			return "", err
		}
		return "[]" + item, nil
	case *schema.Ref:
		if slices.Contains(refs, n.Path) {
			chain := append(slices.Clone(refs), n.Path)
			return "", schema.Errorf(schema.CodeCyclicReference, n.Path,
				"reference cycle %s has no object in between", strings.Join(chain, " -> ")).WithSchema(name)
		}
		target, err := c.resolver.Resolve(n.Path)
		if err != nil {
			return "", withSchema(err, name)
		}
		return c.typeOf(schema.RefName(n.Path), target, append(refs, n.Path))
	}
	return "", schema.Errorf(schema.CodeUnknownSchemaType, "", "unexpected schema %s", kindOf(node)).WithSchema(name)
}

// zeroValue is the value a required field starts with before validation.
func zeroValue(typ string) string {
	switch {
	case typ == "bool":
		return "false"
	case typ == "string":
		return `""`
	case typ == "*big.Int":
		return "new(big.Int)"
	case typ == "decimal.Decimal":
		return "decimal.Zero"
	case typ == "time.Time":
		return "time.Time{}"
	case strings.HasPrefix(typ, "[]"):
		return typ + "{}"
	case strings.HasPrefix(typ, "*"):
		return "&" + typ[1:] + "{}"
	}
	return typ + "{}"
}

// optionalType is the field type of a property that may be absent.
func optionalType(typ string) (string, bool) {
	if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "[]") {
		return typ, false
	}
	return "*" + typ, true
}

func kindOf(node schema.Node) string {
	if node == nil {
		return "<nil>"
	}
	return string(node.Kind())
}

func withSchema(err error, name string) error {
	if e, ok := err.(*schema.Error); ok {
		return e.WithSchema(name)
	}
	return err
}
