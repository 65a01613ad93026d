// Package jsonrt is the runtime support library for generated validators.
//
// Generated code does not import jsonrt. Instead its runtime sources are
// copied next to the generated file and rewritten into the same package, so
// generated validators call the helpers (validateString, toSet, ...) as
// unqualified package-level functions. The copied files depend on
// github.com/goccy/go-json, github.com/shopspring/decimal and
// github.com/wk8/go-ordered-map/v2.
package jsonrt

import (
	"bytes"
	"embed"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"strconv"
	"sync"
)

//go:embed value.go result.go validate.go convert.go
var sources embed.FS

// Files lists the runtime sources in copy order.
var Files = []string{"value.go", "result.go", "validate.go", "convert.go"}

// Header is prepended to every copied runtime file.
const Header = "// Code generated by jsvgen. DO NOT EDIT.\n\n"

// OutputName is the file name a runtime source is copied to.
func OutputName(file string) string {
	return "jsonrt_" + file
}

// Sources returns the runtime files rewritten into package pkg, keyed by
// output file name.
func Sources(pkg string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(Files))
	for _, name := range Files {
		src, err := sources.ReadFile(name)
		if err != nil {
			return nil, err
		}
		rewritten := bytes.Replace(src, []byte("package jsonrt\n"), []byte("package "+pkg+"\n"), 1)
		if bytes.Equal(rewritten, src) && pkg != "jsonrt" {
			return nil, fmt.Errorf("jsonrt: %s has no package clause", name)
		}
		out[OutputName(name)] = append([]byte(Header), rewritten...)
	}
	return out, nil
}

// Identifiers returns every package-level name and import name the runtime
// sources declare. Generated identifiers must avoid them.
var Identifiers = sync.OnceValue(func() map[string]bool {
	names := map[string]bool{}
	fset := token.NewFileSet()
	for _, name := range Files {
		src, err := sources.ReadFile(name)
		if err != nil {
			panic(err)
		}
		f, err := parser.ParseFile(fset, name, src, parser.SkipObjectResolution)
		if err != nil {
			panic(err)
		}
		for _, imp := range f.Imports {
			if imp.Name != nil {
				names[imp.Name.Name] = true
				continue
			}
			p, _ := strconv.Unquote(imp.Path.Value)
			names[path.Base(p)] = true
		}
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil {
					names[d.Name.Name] = true
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch s := spec.(type) {
					case *ast.TypeSpec:
						names[s.Name.Name] = true
					case *ast.ValueSpec:
						for _, n := range s.Names {
							names[n.Name] = true
						}
					}
				}
			}
		}
	}
	return names
})
