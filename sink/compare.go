package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// Status is the result of comparing one generated file with the file on disk.
type Status string

const (
	StatusUpToDate Status = "up-to-date"
	StatusModified Status = "modified"
	StatusMissing  Status = "missing"
)

// Drift describes one compared file.
type Drift struct {
	Path   string `json:"path" yaml:"path"`
	Status Status `json:"status" yaml:"status"`
}

// Compare is a Sink that writes nothing. It records whether each file it
// receives matches the one already below Dir.Root.
type Compare struct {
	Dir *Dir

	mu      sync.Mutex
	results []Drift
}

func NewCompare(root string) *Compare {
	return &Compare{Dir: NewDir(root)}
}

func (c *Compare) WriteFile(ctx context.Context, name string, content []byte) error {
	target, err := c.Dir.resolve(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	status := StatusUpToDate
	existing, err := os.ReadFile(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		status = StatusMissing
	case err != nil:
		return fmt.Errorf("read %s: %w", name, err)
	case !bytes.Equal(existing, content):
		status = StatusModified
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, Drift{Path: name, Status: status})
	return nil
}

// Results returns every comparison sorted by path.
func (c *Compare) Results() []Drift {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := slices.Clone(c.results)
	slices.SortFunc(out, func(a, b Drift) int { return strings.Compare(a.Path, b.Path) })
	return out
}

// Stale reports whether any compared file is missing or modified.
func (c *Compare) Stale() bool {
	for _, d := range c.Results() {
		if d.Status != StatusUpToDate {
			return true
		}
	}
	return false
}
