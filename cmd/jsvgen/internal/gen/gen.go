package gen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/broady/jsvgen/cmd/jsvgen/internal/options"
)

type Cmd struct {
	options.Generator `embed:""`
	Out               string `arg:"" help:"Output directory for generated files." default:"./json-schema" optional:""`

	stdout io.Writer
}

func (c *Cmd) Run(ctx context.Context) error {
	outDir, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	res, err := c.Build().ToDir(ctx, outDir)
	if err != nil {
		return err
	}

	w := c.stdout
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "✓ Generated %d validators in package %s (%s)\n", len(res.Schemas), res.Package, res.Digest)
	for _, name := range res.Files {
		fmt.Fprintf(w, "  %s\n", filepath.Join(c.Out, name))
	}
	if len(res.Ignored) > 0 {
		fmt.Fprintf(w, "  ignored: %v\n", res.Ignored)
	}
	return nil
}
