package schema

import (
	"strconv"
	"strings"
)

// Document is a parsed schema document. It is safe for concurrent use.
type Document struct {
	root any
}

// NewDocument wraps a tree produced by Parse.
func NewDocument(root any) *Document {
	return &Document{root: root}
}

// Root returns the document tree.
func (d *Document) Root() any {
	return d.root
}

// Section returns the object of named schemas found at path.
// Path segments are separated by '/' when the path contains one, else by '.'.
// An empty path selects the document root.
func (d *Document) Section(path string) (*Map, error) {
	segments := SplitSectionPath(path)
	v, ok := lookup(d.root, segments)
	if !ok {
		return nil, Errorf(CodeInvalidDocumentShape, path, "schema path not found")
	}
	m, ok := v.(*Map)
	if !ok {
		return nil, Errorf(CodeInvalidDocumentShape, path, "expected schemas to parse to be an object, found %s", describe(v))
	}
	return m, nil
}

// Resolve fetches and decodes the schema a reference points to.
// A leading "#/" is stripped and the rest is walked segment by segment.
func (d *Document) Resolve(ref string) (Node, error) {
	segments := SplitRef(ref)
	if len(segments) == 0 {
		return nil, Errorf(CodeUnresolvedReference, ref, "reference to the document root is not supported")
	}
	v, ok := lookup(d.root, segments)
	if !ok || v == nil {
		return nil, Errorf(CodeUnresolvedReference, ref, "invalid reference %q", ref)
	}
	return decode(v, pointer(segments))
}

// SplitSectionPath splits a dot- or slash-separated section path.
func SplitSectionPath(path string) []string {
	path = strings.Trim(path, "/.")
	if path == "" {
		return nil
	}
	if strings.Contains(path, "/") {
		return strings.Split(path, "/")
	}
	return strings.Split(path, ".")
}

// SplitRef splits a reference into unescaped JSON pointer segments.
func SplitRef(ref string) []string {
	ref = strings.TrimPrefix(ref, "#")
	ref = strings.TrimPrefix(ref, "/")
	if ref == "" {
		return nil
	}
	parts := strings.Split(ref, "/")
	for i, p := range parts {
		parts[i] = UnescapePointer(p)
	}
	return parts
}

// RefName is the name a reference's target is compiled under: its last segment.
func RefName(ref string) string {
	segments := SplitRef(ref)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// EscapePointer escapes a JSON pointer segment.
func EscapePointer(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// UnescapePointer reverses EscapePointer.
func UnescapePointer(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

func pointer(segments []string) string {
	var b strings.Builder
	b.WriteString("#")
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(EscapePointer(s))
	}
	return b.String()
}

func lookup(v any, segments []string) (any, bool) {
	for _, seg := range segments {
		switch node := v.(type) {
		case *Map:
			next, ok := node.Get(seg)
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			v = node[i]
		default:
			return nil, false
		}
	}
	return v, true
}
