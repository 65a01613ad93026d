// Package sink provides destinations for generated validator files.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Sink receives generated files. Paths are slash-separated and relative to
// the sink's root. Implementations must be safe for concurrent use.
type Sink interface {
	WriteFile(ctx context.Context, name string, content []byte) error
}

// Dir writes files below a directory on the local filesystem. Each file is
// written to a temporary sibling first and renamed into place, so readers
// never observe a partially written validator file.
type Dir struct {
	Root string
	// Mode defaults to 0644.
	Mode os.FileMode
	// NoClobber makes WriteFile fail if the target already exists.
	NoClobber bool
}

// NewDir returns a Dir rooted at root that replaces existing files.
func NewDir(root string) *Dir {
	return &Dir{Root: root, Mode: 0o644}
}

func (d *Dir) WriteFile(ctx context.Context, name string, content []byte) error {
	target, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".jsvgen-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	// Removing a renamed temp file is a no-op.
	defer os.Remove(tmpName)

	_, err = tmp.Write(content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	mode := d.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if d.NoClobber {
		// Link fails atomically when the target exists.
		if err := os.Link(tmpName, target); err != nil {
			if errors.Is(err, os.ErrExist) {
				return fmt.Errorf("%s already exists", name)
			}
			return fmt.Errorf("create %s: %w", name, err)
		}
		return nil
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// resolve maps a sink path to a filesystem path inside Root.
func (d *Dir) resolve(name string) (string, error) {
	if err := ValidatePath(name); err != nil {
		return "", fmt.Errorf("invalid path %q: %w", name, err)
	}
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return "", fmt.Errorf("resolve output root: %w", err)
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	if rel, err := filepath.Rel(root, target); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %s", name, d.Root)
	}
	return target, nil
}

// Memory keeps generated files in memory.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{files: map[string][]byte{}}
}

func (m *Memory) WriteFile(ctx context.Context, name string, content []byte) error {
	if err := ValidatePath(name); err != nil {
		return fmt.Errorf("invalid path %q: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = slices.Clone(content)
	return nil
}

// Files returns a copy of every stored file.
func (m *Memory) Files() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.files))
	for name, content := range m.files {
		out[name] = slices.Clone(content)
	}
	return out
}

// Names returns the stored paths in sorted order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns a copy of one file, or nil if it was never written.
func (m *Memory) Get(name string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[name]
	if !ok {
		return nil
	}
	return slices.Clone(content)
}

// ValidatePath reports whether name is a clean, relative, slash-separated
// path that stays inside the sink root.
func ValidatePath(name string) error {
	switch {
	case name == "":
		return errors.New("path is empty")
	case strings.HasPrefix(name, "/") || filepath.IsAbs(name) || hasDriveLetter(name):
		return errors.New("absolute paths not allowed")
	case strings.Contains(name, `\`):
		return errors.New("use / as the path separator")
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := path.Clean(name); cleaned != name {
		return fmt.Errorf("path is not clean (expected %q)", cleaned)
	}
	return nil
}

func hasDriveLetter(name string) bool {
	if len(name) < 2 || name[1] != ':' {
		return false
	}
	c := name[0] | 0x20
	return c >= 'a' && c <= 'z'
}
