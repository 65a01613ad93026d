package jsonrt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the JSON type of a JSONValue.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// JSONValue is a parsed JSON value. Numbers keep their source text and
// object members keep their source order.
type JSONValue struct {
	kind   Kind
	b      bool
	text   string
	items  []*JSONValue
	fields *orderedmap.OrderedMap[string, *JSONValue]
}

// Kind reports the JSON type. A nil value is null.
func (v *JSONValue) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// Bool returns the value of a boolean.
func (v *JSONValue) Bool() bool {
	return v != nil && v.b
}

// Text returns the contents of a string or the literal of a number.
func (v *JSONValue) Text() string {
	if v == nil {
		return ""
	}
	return v.text
}

// Items returns the elements of an array.
func (v *JSONValue) Items() []*JSONValue {
	if v == nil {
		return nil
	}
	return v.items
}

// Fields returns the members of an object.
func (v *JSONValue) Fields() *orderedmap.OrderedMap[string, *JSONValue] {
	if v == nil {
		return nil
	}
	return v.fields
}

// ParseJSON parses a single JSON document.
func ParseJSON(data []byte) (*JSONValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readValue(dec)
	if err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected %v after top-level value", tok)
	}
	return v, nil
}

func readValue(dec *json.Decoder) (*JSONValue, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			fields := orderedmap.New[string, *JSONValue]()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, found %v", keyTok)
				}
				member, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				fields.Set(key, member)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &JSONValue{kind: KindObject, fields: fields}, nil
		case '[':
			items := []*JSONValue{}
			for dec.More() {
				item, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &JSONValue{kind: KindArray, items: items}, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	case json.Number:
		return &JSONValue{kind: KindNumber, text: string(t)}, nil
	case float64:
		return &JSONValue{kind: KindNumber, text: strconv.FormatFloat(t, 'g', -1, 64)}, nil
	case string:
		return &JSONValue{kind: KindString, text: t}, nil
	case bool:
		return &JSONValue{kind: KindBool, b: t}, nil
	case nil:
		return &JSONValue{kind: KindNull}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}
