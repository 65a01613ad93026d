package jsonrt

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Result holds either a validated value or a human-readable error.
// Error is empty on success.
type Result[T any] struct {
	Value T
	Error string
}

// OK reports whether validation succeeded.
func (r Result[T]) OK() bool {
	return r.Error == ""
}

func success[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func failure[T any](message string) Result[T] {
	return Result[T]{Error: message}
}

type stringSet = orderedmap.OrderedMap[string, struct{}]

// toSet builds an ordered set; iteration follows argument order.
func toSet(values ...string) *stringSet {
	set := orderedmap.New[string, struct{}]()
	for _, v := range values {
		set.Set(v, struct{}{})
	}
	return set
}

func setHas(set *stringSet, value string) bool {
	if set == nil {
		return false
	}
	_, ok := set.Get(value)
	return ok
}

func joinSet(set *stringSet) string {
	values := make([]string, 0, set.Len())
	for pair := set.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Key)
	}
	return strings.Join(values, ", ")
}

// DecodeAndValidate parses data as JSON and maps it through validate.
func DecodeAndValidate[T any](data []byte, validate func(*JSONValue) Result[T]) Result[T] {
	json, err := ParseJSON(data)
	if err != nil {
		return failure[T]("Invalid JSON: " + err.Error())
	}
	if json.Kind() == KindNull {
		return failure[T]("Null JSON")
	}
	return validate(json)
}
