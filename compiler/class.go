package compiler

import (
	"github.com/broady/jsvgen/schema"
)

// additionalPropertiesField holds the undeclared keys of an object.
const additionalPropertiesField = "AdditionalProperties"

// EmitClass returns the struct declaration for an object schema. Fields
// follow property declaration order; the additional properties map, when
// declared, comes last.
func (c *Compiler) EmitClass(schemaName string, obj *schema.Object) (Class, error) {
	class := Class{
		Name:        TypeIdent(schemaName),
		Constructor: constructorIdent(schemaName),
	}
	owners := map[string]string{}
	if obj.AdditionalProperties != nil {
		owners[additionalPropertiesField] = "additionalProperties"
	}

	if obj.Properties != nil {
		for pair := obj.Properties.Oldest(); pair != nil; pair = pair.Next() {
			prop := pair.Key
			typ, err := c.TypeOf(PropertyName(schemaName, prop), pair.Value)
			if err != nil {
				return Class{}, withSchema(err, schemaName)
			}

			field := Field{
				Name:     FieldIdent(prop),
				JSONName: prop,
				Type:     typ,
			}
			if prev, ok := owners[field.Name]; ok {
				return Class{}, schema.Errorf(schema.CodeDuplicateName, "/properties/"+schema.EscapePointer(prop),
					"property %q and %q both map to field %s", prev, prop, field.Name).WithSchema(schemaName)
			}
			owners[field.Name] = prop

			if obj.IsRequired(prop) {
				field.Default, err = c.requiredDefault(PropertyName(schemaName, prop), pair.Value, typ)
				if err != nil {
					return Class{}, withSchema(err, schemaName)
				}
			} else {
				field.Type, field.Boxed = optionalType(typ)
				field.Default = "nil"
			}
			class.Fields = append(class.Fields, field)
		}
	}

	if obj.AdditionalProperties != nil {
		typ, err := c.TypeOf(AdditionalPropertiesName(schemaName), obj.AdditionalProperties)
		if err != nil {
			return Class{}, withSchema(err, schemaName)
		}
		class.Fields = append(class.Fields, Field{
			Name:    additionalPropertiesField,
			Type:    "*orderedmap.OrderedMap[string, " + typ + "]",
			Default: "orderedmap.New[string, " + typ + "]()",
		})
	}
	return class, nil
}

// requiredDefault is the initial value of a required field. Object fields
// start as a constructed instance of their class, unless construction would
// recurse: then they start as an empty struct literal.
func (c *Compiler) requiredDefault(name string, node schema.Node, typ string) (string, error) {
	target, obj, err := c.objectTarget(name, node)
	if err != nil {
		return "", err
	}
	if obj == nil {
		return zeroValue(typ), nil
	}
	finite, err := c.finiteConstruction(target, obj, map[string]bool{})
	if err != nil {
		return "", err
	}
	if !finite {
		return zeroValue(typ), nil
	}
	return constructorIdent(target) + "()", nil
}

// objectTarget follows references from node and returns the class name and
// schema of the object it ends at, or a nil object for any other schema.
func (c *Compiler) objectTarget(name string, node schema.Node) (string, *schema.Object, error) {
	for hops := 0; ; hops++ {
		switch n := node.(type) {
		case *schema.Object:
			return name, n, nil
		case *schema.Ref:
			if hops > maxRefHops {
				return "", nil, schema.Errorf(schema.CodeCyclicReference, n.Path, "reference chain too long").WithSchema(name)
			}
			target, err := c.resolver.Resolve(n.Path)
			if err != nil {
				return "", nil, withSchema(err, name)
			}
			name, node = schema.RefName(n.Path), target
		default:
			return "", nil, nil
		}
	}
}

const maxRefHops = 64

// finiteConstruction reports whether the constructor of the named class
// terminates, i.e. no chain of required object fields leads back to a
// class already being constructed.
func (c *Compiler) finiteConstruction(name string, obj *schema.Object, active map[string]bool) (bool, error) {
	if active[name] {
		return false, nil
	}
	if obj.Properties == nil {
		return true, nil
	}
	active[name] = true
	defer delete(active, name)
	for pair := obj.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if !obj.IsRequired(pair.Key) {
			continue
		}
		target, child, err := c.objectTarget(PropertyName(name, pair.Key), pair.Value)
		if err != nil {
			return false, err
		}
		if child == nil {
			continue
		}
		finite, err := c.finiteConstruction(target, child, active)
		if err != nil || !finite {
			return false, err
		}
	}
	return true, nil
}
