// Package compiler turns decoded JSON Schema trees into Go validator source.
//
// Compile walks one schema and returns a Result holding validator functions,
// struct declarations and set constants. CompileDocument does this for every
// schema in a document section and merges the results; Render prints a
// merged Result as a Go source file that runs against the jsonrt runtime.
package compiler

import (
	"fmt"

	"github.com/broady/jsvgen/schema"
)

// Resolver fetches the schema a $ref points to. *schema.Document implements it.
type Resolver interface {
	Resolve(ref string) (schema.Node, error)
}

// Config controls naming.
type Config struct {
	// ExportValidators names validators ValidateX instead of validateX.
	ExportValidators bool
}

// Compiler compiles schema trees. It holds no per-compilation state and is
// safe for concurrent use when its Resolver is.
type Compiler struct {
	resolver Resolver
	prefix   string
}

// New returns a Compiler resolving references through r.
func New(r Resolver, cfg Config) *Compiler {
	prefix := "validate"
	if cfg.ExportValidators {
		prefix = "Validate"
	}
	return &Compiler{resolver: r, prefix: prefix}
}

// ValidatorName returns the validator identifier for a schema name.
func (c *Compiler) ValidatorName(schemaName string) string {
	return c.validatorIdent(schemaName)
}

// Compile compiles the schema tree rooted at node. The returned Result lists
// the validator for node first, followed by those of its anonymous children.
// Referenced schemas are called by name and are not compiled here.
func (c *Compiler) Compile(schemaName string, node schema.Node) (*Result, error) {
	resultType, err := c.TypeOf(schemaName, node)
	if err != nil {
		return nil, err
	}
	fn := Function{
		Name:       c.validatorIdent(schemaName),
		SchemaName: schemaName,
		ResultType: resultType,
	}
	result := &Result{}

	switch n := node.(type) {
	case *schema.Object:
		body, err := c.compileObject(schemaName, n, result)
		if err != nil {
			return nil, err
		}
		fn.Object = body

	case *schema.Array:
		item, err := c.child(ItemName(schemaName), n.Items, result)
		if err != nil {
			return nil, err
		}
		fn.Return = fmt.Sprintf("validateArray(json, %s, %s, %s)", countArg(n.MinItems), countArg(n.MaxItems), item)

	case *schema.String, *schema.Number, *schema.Integer, *schema.Boolean:
		call, constants, err := c.CompilePrimitive("json", schemaName, n)
		if err != nil {
			return nil, err
		}
		result.Constants = append(result.Constants, constants...)
		fn.Return = call

	case *schema.Ref:
		result.Refs = append(result.Refs, Reference{From: schemaName, Path: n.Path})
		fn.Return = c.validatorIdent(schema.RefName(n.Path)) + "(json)"

	default:
		return nil, schema.Errorf(schema.CodeUnknownSchemaType, "", "unexpected schema %s", kindOf(node)).WithSchema(schemaName)
	}

	result.Functions = append([]Function{fn}, result.Functions...)
	return result, nil
}

func (c *Compiler) compileObject(schemaName string, obj *schema.Object, result *Result) (*ObjectBody, error) {
	class, err := c.EmitClass(schemaName, obj)
	if err != nil {
		return nil, err
	}
	result.Classes = append(result.Classes, class)
	body := &ObjectBody{Constructor: class.Constructor}

	if obj.AdditionalProperties != nil {
		step := &MapStep{Exclude: "nil", Field: additionalPropertiesField}
		if obj.HasProperties() {
			step.Exclude = TypeIdent(PropertiesSetName(schemaName))
			result.Constants = append(result.Constants, Constant{Name: step.Exclude, Values: obj.PropertyNames()})
		}
		step.Validator, err = c.child(AdditionalPropertiesName(schemaName), obj.AdditionalProperties, result)
		if err != nil {
			return nil, err
		}
		body.AdditionalProperties = step
	}

	if obj.Properties == nil {
		return body, nil
	}
	i := 0
	for pair := obj.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop, node := pair.Key, pair.Value
		field := class.Fields[i]
		i++

		step := PropertyStep{
			JSONName: prop,
			Field:    field.Name,
			Required: obj.IsRequired(prop),
			Boxed:    field.Boxed,
		}
		propName := PropertyName(schemaName, prop)
		switch node.(type) {
		case *schema.Object, *schema.Array, *schema.Ref:
			validator, err := c.child(propName, node, result)
			if err != nil {
				return nil, err
			}
			step.Call = validator + "(propJSON)"
		default:
			call, constants, err := c.CompilePrimitive("propJSON", propName, node)
			if err != nil {
				return nil, err
			}
			result.Constants = append(result.Constants, constants...)
			step.Call = call
		}
		body.Properties = append(body.Properties, step)
	}
	return body, nil
}

// child returns the validator for a nested schema. References name the
// target's validator; anything else is compiled under name and merged into result.
func (c *Compiler) child(name string, node schema.Node, result *Result) (string, error) {
	if ref, ok := node.(*schema.Ref); ok {
		result.Refs = append(result.Refs, Reference{From: name, Path: ref.Path})
		return c.validatorIdent(schema.RefName(ref.Path)), nil
	}
	sub, err := c.Compile(name, node)
	if err != nil {
		return "", err
	}
	result.Merge(sub)
	return c.validatorIdent(name), nil
}
