package jsonrt

import (
	"bytes"
	"go/parser"
	"go/token"
	"testing"
)

func TestSources(t *testing.T) {
	files, err := Sources("petstore")
	if err != nil {
		t.Fatalf("Sources() error = %v", err)
	}
	if len(files) != len(Files) {
		t.Fatalf("len(Sources()) = %d, want %d", len(files), len(Files))
	}

	for _, name := range Files {
		src, ok := files[OutputName(name)]
		if !ok {
			t.Errorf("Sources() missing %s", OutputName(name))
			continue
		}
		if !bytes.HasPrefix(src, []byte(Header)) {
			t.Errorf("%s does not start with the generated header", name)
		}
		f, err := parser.ParseFile(token.NewFileSet(), name, src, parser.PackageClauseOnly)
		if err != nil {
			t.Errorf("parse %s: %v", name, err)
			continue
		}
		if f.Name.Name != "petstore" {
			t.Errorf("%s package = %q, want petstore", name, f.Name.Name)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	ids := Identifiers()
	for _, want := range []string{
		"Result", "JSONValue", "ParseJSON", "DecodeAndValidate", "toSet", "success", "failure",
		"validateString", "validateTypedMap", "bigIntFromString", "KindObject",
		"json", "decimal", "orderedmap", "big", "time", "hex",
	} {
		if !ids[want] {
			t.Errorf("Identifiers() missing %q", want)
		}
	}
	for _, method := range []string{"OK", "Text", "Items"} {
		if ids[method] {
			t.Errorf("Identifiers() lists method %q, want package-level names only", method)
		}
	}
}
