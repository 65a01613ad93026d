package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"sigs.k8s.io/yaml"

	"github.com/broady/jsvgen"
	"github.com/broady/jsvgen/cmd/jsvgen/internal/options"
)

// ErrStale is returned when generated files are missing or out of date.
var ErrStale = errors.New("generated files are out of date; run jsvgen gen")

type Cmd struct {
	options.Generator `embed:""`
	Dir               string `arg:"" help:"Directory holding previously generated files." default:"./json-schema" optional:""`
	Output            string `help:"Output format." short:"o" enum:"table,yaml,json" default:"table"`

	stdout io.Writer
}

func (c *Cmd) Run(ctx context.Context) error {
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	res, err := c.Build().Check(ctx, dir)
	if err != nil {
		return err
	}

	out, err := Encode(c.Output, res)
	if err != nil {
		return err
	}
	w := c.stdout
	if w == nil {
		w = os.Stdout
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	if res.Stale() {
		return ErrStale
	}
	return nil
}

// Encode renders a check result as table, yaml or json.
func Encode(format string, res *jsvgen.CheckResult) ([]byte, error) {
	switch format {
	case "table":
		return encodeTable(res), nil
	case "yaml":
		return yaml.Marshal(res)
	case "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

func encodeTable(res *jsvgen.CheckResult) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"File", "Status"})
	for _, d := range res.Drift {
		t.AppendRow(table.Row{d.Path, d.Status})
	}
	t.AppendFooter(table.Row{"Digest", res.Digest.String()})
	style := table.StyleLight
	style.Options.DrawBorder = false
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}
