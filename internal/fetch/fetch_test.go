package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "schemas.yaml")
	require.NoError(t, os.WriteFile(name, []byte("Pet:\n  type: object\n"), 0o644))

	data, err := Fetch(context.Background(), name)
	require.NoError(t, err)
	require.Equal(t, "Pet:\n  type: object\n", string(data))

	_, err = Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/openapi.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"components": {}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := &Fetcher{Client: srv.Client()}
	data, err := f.Fetch(context.Background(), srv.URL+"/openapi.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"components": {}}`, string(data))

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.json")
	require.ErrorContains(t, err, "404")
}

func TestFetchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Fetcher{Client: srv.Client()}).Fetch(ctx, srv.URL)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchTooLarge(t *testing.T) {
	name := filepath.Join(t.TempDir(), "big.json")
	require.NoError(t, os.WriteFile(name, make([]byte, 11), 0o644))

	_, err := (&Fetcher{MaxBytes: 10}).Fetch(context.Background(), name)
	require.True(t, errors.Is(err, ErrTooLarge), "error = %v", err)

	_, err = (&Fetcher{MaxBytes: 11}).Fetch(context.Background(), name)
	require.NoError(t, err)
}

func TestIsURL(t *testing.T) {
	require.True(t, IsURL("https://example.com/openapi.yaml"))
	require.True(t, IsURL("http://localhost:8080/s.json"))
	require.False(t, IsURL("./openapi.yaml"))
	require.False(t, IsURL("ftp://example.com/x"))
	require.False(t, IsURL(""))
}
