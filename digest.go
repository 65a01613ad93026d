package jsvgen

import (
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	json "github.com/goccy/go-json"
	"github.com/opencontainers/go-digest"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/broady/jsvgen/schema"
)

// SourceDigest hashes the RFC 8785 canonical form of the schemas in section
// that keep accepts. Reformatting the document or reordering its keys does
// not change the digest.
func SourceDigest(section *schema.Map, keep func(name string) bool) (digest.Digest, error) {
	kept := orderedmap.New[string, any]()
	for pair := section.Oldest(); pair != nil; pair = pair.Next() {
		if keep(pair.Key) {
			kept.Set(pair.Key, pair.Value)
		}
	}
	raw, err := json.Marshal(kept)
	if err != nil {
		return "", fmt.Errorf("encode schemas: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize schemas: %w", err)
	}
	return digest.FromBytes(canonical), nil
}

// header is the comment block of the generated validators file.
func header(d digest.Digest) string {
	return "// Code generated by jsvgen. DO NOT EDIT.\n// Source digest: " + d.String() + "\n\n"
}
