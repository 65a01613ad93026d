package schema

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Decode converts a document subtree into a Node.
// Sub-schemas (properties, items, additionalProperties) are decoded eagerly;
// references are kept as *Ref and resolved by the compiler.
func Decode(v any) (Node, error) {
	return decode(v, "#")
}

// DecodeAt is Decode with a JSON pointer used to locate errors.
func DecodeAt(v any, pointer string) (Node, error) {
	return decode(v, pointer)
}

func decode(v any, path string) (Node, error) {
	m, ok := v.(*Map)
	if !ok {
		return nil, Errorf(CodeInvalidSchemaValue, path, "expected schema object, found %s", describe(v))
	}

	if ref, ok := m.Get("$ref"); ok {
		s, ok := ref.(string)
		if !ok {
			return nil, Errorf(CodeInvalidSchemaValue, path+"/$ref", "expected string, found %s", describe(ref))
		}
		return &Ref{Path: s}, nil
	}

	t, ok := m.Get("type")
	if !ok {
		return nil, Errorf(CodeUnknownSchemaType, path, "schema has no type")
	}
	ts, ok := t.(string)
	if !ok {
		return nil, Errorf(CodeUnknownSchemaType, path, "unsupported type %s", describe(t))
	}

	switch Kind(ts) {
	case KindObject:
		return decodeObject(m, path)
	case KindArray:
		return decodeArray(m, path)
	case KindString:
		return decodeString(m, path)
	case KindNumber:
		lo, hi, err := decodeBounds(m, path, false)
		if err != nil {
			return nil, err
		}
		return &Number{Minimum: lo, Maximum: hi}, nil
	case KindInteger:
		lo, hi, err := decodeBounds(m, path, true)
		if err != nil {
			return nil, err
		}
		return &Integer{Minimum: lo, Maximum: hi}, nil
	case KindBoolean:
		return &Boolean{}, nil
	default:
		return nil, Errorf(CodeUnknownSchemaType, path, "unexpected type %q", ts)
	}
}

func decodeObject(m *Map, path string) (*Object, error) {
	obj := &Object{Required: map[string]bool{}}

	if raw, ok := m.Get("properties"); ok {
		props, ok := raw.(*Map)
		if !ok {
			return nil, Errorf(CodeInvalidSchemaValue, path+"/properties", "expected object, found %s", describe(raw))
		}
		obj.Properties = orderedmap.New[string, Node]()
		for pair := props.Oldest(); pair != nil; pair = pair.Next() {
			child, err := decode(pair.Value, path+"/properties/"+EscapePointer(pair.Key))
			if err != nil {
				return nil, err
			}
			obj.Properties.Set(pair.Key, child)
		}
	}

	if raw, ok := m.Get("required"); ok {
		names, err := stringList(raw, path+"/required")
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			obj.Required[n] = true
		}
	}

	if raw, ok := m.Get("additionalProperties"); ok {
		switch v := raw.(type) {
		case bool:
			// true and false add no typed field
		case *Map:
			if v.Len() == 0 {
				break
			}
			child, err := decode(raw, path+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			obj.AdditionalProperties = child
		default:
			child, err := decode(raw, path+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			obj.AdditionalProperties = child
		}
	}

	return obj, nil
}

func decodeArray(m *Map, path string) (*Array, error) {
	raw, ok := m.Get("items")
	if !ok {
		return nil, Errorf(CodeInvalidSchemaValue, path, "array schema has no items")
	}
	items, err := decode(raw, path+"/items")
	if err != nil {
		return nil, err
	}
	arr := &Array{Items: items}
	if arr.MinItems, err = optionalCount(m, "minItems", path); err != nil {
		return nil, err
	}
	if arr.MaxItems, err = optionalCount(m, "maxItems", path); err != nil {
		return nil, err
	}
	return arr, nil
}

func decodeString(m *Map, path string) (*String, error) {
	s := &String{}
	var err error
	if s.MinLength, err = optionalCount(m, "minLength", path); err != nil {
		return nil, err
	}
	if s.MaxLength, err = optionalCount(m, "maxLength", path); err != nil {
		return nil, err
	}
	if raw, ok := m.Get("enum"); ok {
		values, err := stringList(raw, path+"/enum")
		if err != nil {
			return nil, err
		}
		s.Enum = values
	}
	if raw, ok := m.Get("format"); ok {
		f, ok := raw.(string)
		if !ok {
			return nil, Errorf(CodeInvalidSchemaValue, path+"/format", "expected string, found %s", describe(raw))
		}
		s.Format = StringFormat(f)
	}
	return s, nil
}

// decodeBounds reads minimum and maximum as decimal (or integer) strings.
// Numbers keep their source text; quoted strings are accepted for large values.
func decodeBounds(m *Map, path string, integer bool) (lo, hi string, err error) {
	read := func(key string) (string, error) {
		raw, ok := m.Get(key)
		if !ok {
			return "", nil
		}
		var text string
		switch v := raw.(type) {
		case Literal:
			text = string(v)
		case string:
			text = strings.TrimSpace(v)
		default:
			return "", Errorf(CodeInvalidSchemaValue, path+"/"+key, "expected number, found %s", describe(raw))
		}
		if integer {
			if _, ok := new(big.Int).SetString(text, 10); !ok {
				return "", Errorf(CodeInvalidSchemaValue, path+"/"+key, "expected integer, found %q", text)
			}
			return text, nil
		}
		if _, err := decimal.NewFromString(text); err != nil {
			return "", Errorf(CodeInvalidSchemaValue, path+"/"+key, "expected decimal, found %q", text)
		}
		return text, nil
	}
	if lo, err = read("minimum"); err != nil {
		return "", "", err
	}
	if hi, err = read("maximum"); err != nil {
		return "", "", err
	}
	return lo, hi, nil
}

func optionalCount(m *Map, key, path string) (*int, error) {
	raw, ok := m.Get(key)
	if !ok {
		return nil, nil
	}
	n, isNum := raw.(Literal)
	if !isNum {
		return nil, Errorf(CodeInvalidSchemaValue, path+"/"+key, "expected non-negative integer, found %s", describe(raw))
	}
	v, err := strconv.Atoi(string(n))
	if err != nil || v < 0 {
		return nil, Errorf(CodeInvalidSchemaValue, path+"/"+key, "expected non-negative integer, found %s", n)
	}
	return &v, nil
}

func stringList(raw any, path string) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, Errorf(CodeInvalidSchemaValue, path, "expected array of strings, found %s", describe(raw))
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, Errorf(CodeInvalidSchemaValue, path+"/"+strconv.Itoa(i), "expected string, found %s", describe(item))
		}
		out = append(out, s)
	}
	return out, nil
}

// describe names the JSON kind of a tree value for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case Literal:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case *Map:
		return "object"
	default:
		return "unknown"
	}
}
