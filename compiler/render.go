package compiler

import (
	"bytes"
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/broady/jsvgen/jsonrt"
)

// RenderOptions controls Render.
type RenderOptions struct {
	// Package is the package clause of the generated file.
	Package string
	// Header precedes the package clause. Defaults to jsonrt.Header.
	Header string
}

// Imports the generated file may need, keyed by the qualifier types use.
var knownImports = []struct {
	qualifier string
	spec      string
	std       bool
}{
	{"big.", `"math/big"`, true},
	{"time.", `"time"`, true},
	{"decimal.", `decimal "github.com/shopspring/decimal"`, false},
	{"orderedmap.", `orderedmap "github.com/wk8/go-ordered-map/v2"`, false},
}

// Render prints r as a gofmt-formatted Go source file. Constants come first,
// then each struct with its constructor, then validators, all in r's order.
func Render(r *Result, opts RenderOptions) ([]byte, error) {
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("invalid package name %q", opts.Package)
	}
	header := opts.Header
	if header == "" {
		header = jsonrt.Header
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	fmt.Fprintf(&buf, "package %s\n\n", opts.Package)
	emitImports(&buf, usedQualifiers(r))

	e := &emitter{}
	for _, k := range r.Constants {
		e.emitConstant(&buf, k)
	}
	for _, class := range r.Classes {
		e.emitClass(&buf, class)
	}
	for _, fn := range r.Functions {
		e.emitFunction(&buf, fn)
	}

	out, err := imports.Process("validators.go", buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return out, nil
}

// usedQualifiers collects the package qualifiers appearing in declared types
// and defaults. Call expressions only name runtime helpers.
func usedQualifiers(r *Result) map[string]bool {
	var types []string
	for _, class := range r.Classes {
		for _, f := range class.Fields {
			types = append(types, f.Type, f.Default)
		}
	}
	for _, fn := range r.Functions {
		types = append(types, fn.ResultType)
	}
	used := map[string]bool{}
	for _, imp := range knownImports {
		for _, t := range types {
			if strings.Contains(t, imp.qualifier) {
				used[imp.qualifier] = true
				break
			}
		}
	}
	return used
}

func emitImports(buf *bytes.Buffer, used map[string]bool) {
	var std, ext []string
	for _, imp := range knownImports {
		if !used[imp.qualifier] {
			continue
		}
		if imp.std {
			std = append(std, imp.spec)
		} else {
			ext = append(ext, imp.spec)
		}
	}
	if len(std)+len(ext) == 0 {
		return
	}
	buf.WriteString("import (\n")
	for _, s := range std {
		fmt.Fprintf(buf, "\t%s\n", s)
	}
	if len(std) > 0 && len(ext) > 0 {
		buf.WriteString("\n")
	}
	for _, s := range ext {
		fmt.Fprintf(buf, "\t%s\n", s)
	}
	buf.WriteString(")\n\n")
}

type emitter struct{}

func (e *emitter) emitConstant(buf *bytes.Buffer, k Constant) {
	quoted := make([]string, len(k.Values))
	for i, v := range k.Values {
		quoted[i] = strconv.Quote(v)
	}
	fmt.Fprintf(buf, "var %s = toSet(%s)\n\n", k.Name, strings.Join(quoted, ", "))
}

func (e *emitter) emitClass(buf *bytes.Buffer, class Class) {
	if len(class.Fields) == 0 {
		fmt.Fprintf(buf, "type %s struct{}\n\n", class.Name)
		fmt.Fprintf(buf, "func %s() *%s {\n\treturn &%s{}\n}\n\n", class.Constructor, class.Name, class.Name)
		return
	}

	fmt.Fprintf(buf, "type %s struct {\n", class.Name)
	for _, f := range class.Fields {
		fmt.Fprintf(buf, "\t%s %s", f.Name, f.Type)
		if tag := fieldTag(f); tag != "" {
			fmt.Fprintf(buf, " `%s`", tag)
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n\n")

	fmt.Fprintf(buf, "func %s() *%s {\n", class.Constructor, class.Name)
	fmt.Fprintf(buf, "\treturn &%s{\n", class.Name)
	for _, f := range class.Fields {
		fmt.Fprintf(buf, "\t\t%s: %s,\n", f.Name, f.Default)
	}
	buf.WriteString("\t}\n}\n\n")
}

// fieldTag returns the struct tag for f. Names encoding/json cannot
// express in a tag get none.
func fieldTag(f Field) string {
	if f.JSONName == "" {
		return `json:"-"`
	}
	if !validTagName(f.JSONName) {
		return ""
	}
	if f.Default == "nil" {
		return `json:"` + f.JSONName + `,omitempty"`
	}
	return `json:"` + f.JSONName + `"`
}

func validTagName(name string) bool {
	for _, r := range name {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", r):
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r > 0x7f && r != 0xfffd:
		default:
			return false
		}
	}
	return true
}

func (e *emitter) emitFunction(buf *bytes.Buffer, fn Function) {
	fmt.Fprintf(buf, "func %s(json *JSONValue) Result[%s] {\n", fn.Name, fn.ResultType)
	if fn.Object == nil {
		fmt.Fprintf(buf, "\treturn %s\n}\n\n", fn.Return)
		return
	}

	fail := "failure[" + fn.ResultType + "]"
	body := fn.Object
	fmt.Fprintf(buf, "\tvalue := %s()\n", body.Constructor)
	buf.WriteString("\tobjResult := validateObject(json)\n")
	buf.WriteString("\tif objResult.Error != \"\" {\n")
	fmt.Fprintf(buf, "\t\treturn %s(objResult.Error)\n", fail)
	buf.WriteString("\t}\n")
	if len(body.Properties) > 0 {
		buf.WriteString("\tobj := objResult.Value\n")
	}

	if ap := body.AdditionalProperties; ap != nil {
		fmt.Fprintf(buf, "\taddPropertiesResult := validateTypedMap(json, %s, %s)\n", ap.Exclude, ap.Validator)
		buf.WriteString("\tif addPropertiesResult.Error != \"\" {\n")
		fmt.Fprintf(buf, "\t\treturn %s(\"Error in mapping additionalProperties: \" + addPropertiesResult.Error)\n", fail)
		buf.WriteString("\t}\n")
		fmt.Fprintf(buf, "\tvalue.%s = addPropertiesResult.Value\n", ap.Field)
	}

	for _, p := range body.Properties {
		key := strconv.Quote(p.JSONName)
		if p.Required {
			buf.WriteString("\t{\n")
			fmt.Fprintf(buf, "\t\tpropJSON, ok := obj.Get(%s)\n", key)
			buf.WriteString("\t\tif !ok {\n")
			fmt.Fprintf(buf, "\t\t\treturn %s(%s)\n", fail,
				strconv.Quote(fmt.Sprintf("Expected '%s' to be present in %s", p.JSONName, fn.SchemaName)))
			buf.WriteString("\t\t}\n")
		} else {
			fmt.Fprintf(buf, "\tif propJSON, ok := obj.Get(%s); ok {\n", key)
		}
		fmt.Fprintf(buf, "\t\tpropResult := %s\n", p.Call)
		buf.WriteString("\t\tif propResult.Error != \"\" {\n")
		fmt.Fprintf(buf, "\t\t\treturn %s(%s + propResult.Error)\n", fail,
			strconv.Quote(fmt.Sprintf("Error in mapping '%s': ", p.JSONName)))
		buf.WriteString("\t\t}\n")
		if p.Boxed {
			fmt.Fprintf(buf, "\t\tvalue.%s = &propResult.Value\n", p.Field)
		} else {
			fmt.Fprintf(buf, "\t\tvalue.%s = propResult.Value\n", p.Field)
		}
		buf.WriteString("\t}\n")
	}
	buf.WriteString("\treturn success(value)\n}\n\n")
}
