// Package validate holds the struct validator shared by the generator
// configuration and the compile service's request types.
package validate

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// gopkg accepts a Go package name.
	_ = val.RegisterValidation("gopkg", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return token.IsIdentifier(s) && !token.IsKeyword(s) && s != "_"
	})
	// glob accepts a pattern gobwas/glob can compile.
	_ = val.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		_, err := glob.Compile(fl.Field().String())
		return err == nil
	})
	return val
}

// Struct validates s using its validate tags.
func Struct(s any) error {
	return v.Struct(s)
}

// Describe flattens a validation error into a one-line message and
// per-field messages. ok is false if err holds no field errors.
func Describe(err error) (message string, fields map[string]string, ok bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "", nil, false
	}
	fields = make(map[string]string, len(errs))
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		msg := Message(fe)
		fields[fe.Field()] = msg
		messages = append(messages, fe.Field()+": "+msg)
	}
	return strings.Join(messages, "; "), fields, true
}

// Message is a human-readable description of one failed rule.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "required"
	case "gopkg":
		return "must be a valid Go package name"
	case "glob":
		return "must be a valid glob pattern"
	case "http_url":
		return "must be an http or https URL"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "endswith":
		return fmt.Sprintf("must end with %s", fe.Param())
	case "excludesall":
		return fmt.Sprintf("must not contain any of %q", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
