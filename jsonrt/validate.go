package jsonrt

import (
	"fmt"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func typeMismatch[T any](want Kind, json *JSONValue) Result[T] {
	return failure[T](fmt.Sprintf("Expected to be %s, found %q", want, json.Kind().String()))
}

func validateBoolean(json *JSONValue) Result[bool] {
	if json.Kind() != KindBool {
		return typeMismatch[bool](KindBool, json)
	}
	return success(json.Bool())
}

// validateString checks kind, rune length and enum membership.
// A negative length disables that bound; a nil set accepts any value.
func validateString(json *JSONValue, minLength, maxLength int, enum *stringSet) Result[string] {
	if json.Kind() != KindString {
		return typeMismatch[string](KindString, json)
	}

	value := json.Text()
	length := utf8.RuneCountInString(value)
	if minLength >= 0 && length < minLength {
		return failure[string]("Expected string length to be >= " + strconv.Itoa(minLength))
	}
	if maxLength >= 0 && length > maxLength {
		return failure[string]("Expected string length to be <= " + strconv.Itoa(maxLength))
	}
	if enum != nil && !setHas(enum, value) {
		return failure[string]("Expected string to be one of " + joinSet(enum))
	}
	return success(value)
}

// validateNumber checks an arbitrary-precision decimal against inclusive bounds.
func validateNumber(json *JSONValue, minimum, maximum *decimal.Decimal) Result[decimal.Decimal] {
	if json.Kind() != KindNumber {
		return typeMismatch[decimal.Decimal](KindNumber, json)
	}
	value, ok := parseDecimal(json.Text())
	if !ok {
		return failure[decimal.Decimal](fmt.Sprintf("invalid floating point %q", json.Text()))
	}
	if minimum != nil && value.LessThan(*minimum) {
		return failure[decimal.Decimal]("Expected number to be >= " + minimum.String())
	}
	if maximum != nil && value.GreaterThan(*maximum) {
		return failure[decimal.Decimal]("Expected number to be <= " + maximum.String())
	}
	return success(value)
}

// validateInteger checks an arbitrary-precision integer against inclusive bounds.
func validateInteger(json *JSONValue, minimum, maximum *big.Int) Result[*big.Int] {
	if json.Kind() != KindNumber {
		return typeMismatch[*big.Int](KindNumber, json)
	}
	value, ok := parseInteger(json.Text())
	if !ok {
		return failure[*big.Int](fmt.Sprintf("invalid integer %q", json.Text()))
	}
	if minimum != nil && value.Cmp(minimum) < 0 {
		return failure[*big.Int]("Expected integer to be >= " + minimum.String())
	}
	if maximum != nil && value.Cmp(maximum) > 0 {
		return failure[*big.Int]("Expected integer to be <= " + maximum.String())
	}
	return success(value)
}

// validateArray checks the element count, then maps every element through item,
// stopping at the first failure.
func validateArray[T any](json *JSONValue, minItems, maxItems int, item func(*JSONValue) Result[T]) Result[[]T] {
	if json.Kind() != KindArray {
		return typeMismatch[[]T](KindArray, json)
	}

	elements := json.Items()
	if minItems >= 0 && len(elements) < minItems {
		return failure[[]T]("Expected array length to be >= " + strconv.Itoa(minItems))
	}
	if maxItems >= 0 && len(elements) > maxItems {
		return failure[[]T]("Expected array length to be <= " + strconv.Itoa(maxItems))
	}

	value := make([]T, 0, len(elements))
	for i, element := range elements {
		r := item(element)
		if r.Error != "" {
			return failure[[]T]("Error in mapping element '" + strconv.Itoa(i) + "' \"" + r.Error + "\"")
		}
		value = append(value, r.Value)
	}
	return success(value)
}

func validateObject(json *JSONValue) Result[*orderedmap.OrderedMap[string, *JSONValue]] {
	if json.Kind() != KindObject {
		return typeMismatch[*orderedmap.OrderedMap[string, *JSONValue]](KindObject, json)
	}
	return success(json.Fields())
}

// validateTypedMap maps every member not in exclude through item.
func validateTypedMap[T any](json *JSONValue, exclude *stringSet, item func(*JSONValue) Result[T]) Result[*orderedmap.OrderedMap[string, T]] {
	objResult := validateObject(json)
	if objResult.Error != "" {
		return failure[*orderedmap.OrderedMap[string, T]](objResult.Error)
	}

	value := orderedmap.New[string, T]()
	for pair := objResult.Value.Oldest(); pair != nil; pair = pair.Next() {
		if setHas(exclude, pair.Key) {
			continue
		}
		r := item(pair.Value)
		if r.Error != "" {
			return failure[*orderedmap.OrderedMap[string, T]]("Error in mapping element '" + pair.Key + "' \"" + r.Error + "\"")
		}
		value.Set(pair.Key, r.Value)
	}
	return success(value)
}
