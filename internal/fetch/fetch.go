// Package fetch reads schema documents from local files or http(s) URLs.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	slogctx "github.com/veqryn/slog-context"
)

// DefaultMaxBytes bounds the size of a fetched document.
const DefaultMaxBytes = 32 << 20

// ErrTooLarge is returned when a document exceeds the size limit.
var ErrTooLarge = errors.New("document too large")

// Fetcher reads documents. The zero value uses http.DefaultClient and DefaultMaxBytes.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// IsURL reports whether source names an http(s) resource.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch reads source with a zero Fetcher.
func Fetch(ctx context.Context, source string) ([]byte, error) {
	return (&Fetcher{}).Fetch(ctx, source)
}

// Fetch returns the document at source, a local path or an http(s) URL.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, errors.New("no schema source given")
	}
	if !IsURL(source) {
		return f.readFile(source)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", source, resp.Status)
	}
	data, err := f.read(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}

	slogctx.FromCtx(ctx).DebugContext(ctx, "fetched schema document",
		"source", source,
		"bytes", len(data),
		"duration", time.Since(start))
	return data, nil
}

func (f *Fetcher) readFile(name string) ([]byte, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := f.read(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (f *Fetcher) read(r io.Reader) ([]byte, error) {
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
