package jsonrt

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func parseInteger(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	return new(big.Int).SetString(s, 10)
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseDateTime accepts RFC 3339 with or without fractional seconds.
func parseDateTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, true
		}
		return time.Time{}, false
	}
	return t, true
}

// validateStringResultInteger converts an already-validated string into an integer.
func validateStringResultInteger(r Result[string]) Result[*big.Int] {
	if r.Error != "" {
		return failure[*big.Int](r.Error)
	}
	value, ok := parseInteger(r.Value)
	if !ok {
		return failure[*big.Int](fmt.Sprintf("invalid integer %q", r.Value))
	}
	return success(value)
}

// validateStringResultNumber converts an already-validated string into a decimal.
func validateStringResultNumber(r Result[string]) Result[decimal.Decimal] {
	if r.Error != "" {
		return failure[decimal.Decimal](r.Error)
	}
	value, ok := parseDecimal(r.Value)
	if !ok {
		return failure[decimal.Decimal](fmt.Sprintf("invalid floating point %q", r.Value))
	}
	return success(value)
}

// validateBytes decodes a hex string with an optional 0x prefix.
func validateBytes(s string) Result[[]byte] {
	digits := s
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}
	if len(digits)%2 != 0 {
		return failure[[]byte]("String must be multiple of 2")
	}
	value, err := hex.DecodeString(digits)
	if err != nil {
		return failure[[]byte](fmt.Sprintf("invalid hex string %q", s))
	}
	return success(value)
}

func validateBytesFromStringResult(r Result[string]) Result[[]byte] {
	if r.Error != "" {
		return failure[[]byte](r.Error)
	}
	return validateBytes(r.Value)
}

func validateDateTimeFromStringResult(r Result[string]) Result[time.Time] {
	if r.Error != "" {
		return failure[time.Time](r.Error)
	}
	value, ok := parseDateTime(r.Value)
	if !ok {
		return failure[time.Time](fmt.Sprintf("Expected RFC 3339 date-time, found %q", r.Value))
	}
	return success(value)
}

// bigIntFromString parses a bound literal emitted by the compiler.
// The compiler validates literals, so a bad one is a generator bug.
func bigIntFromString(s string) *big.Int {
	value, ok := parseInteger(s)
	if !ok {
		panic(fmt.Sprintf("jsonrt: invalid integer literal %q", s))
	}
	return value
}

// bigDecimalFromString is bigIntFromString for decimal bounds.
func bigDecimalFromString(s string) *decimal.Decimal {
	value, ok := parseDecimal(s)
	if !ok {
		panic(fmt.Sprintf("jsonrt: invalid decimal literal %q", s))
	}
	return &value
}
