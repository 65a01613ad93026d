// Package server exposes the generator as an HTTP compile service.
//
//	GET  /v1/compile?source=<url>&schemaPath=&ignore=&package=&export=
//	POST /v1/compile   {"document": ..., "schemaPath": ..., ...}
//	GET  /healthz
//
// Successful responses are wrapped as {"result": ...}, failures as
// {"error": {"code", "message", "details"}}.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/schema"
	slogctx "github.com/veqryn/slog-context"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/broady/jsvgen"
	"github.com/broady/jsvgen/compiler"
	"github.com/broady/jsvgen/internal/fetch"
	"github.com/broady/jsvgen/internal/validate"
	jsschema "github.com/broady/jsvgen/schema"
	"github.com/broady/jsvgen/sink"
)

// Config configures a Server.
type Config struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Fetcher reads source URLs. Default: a zero fetch.Fetcher.
	Fetcher *fetch.Fetcher
	// Rate and Burst bound requests per second per client address.
	// Defaults: 5 and 10.
	Rate  int
	Burst int
	// MaxBodyBytes bounds POST bodies. Default: fetch.DefaultMaxBytes.
	MaxBodyBytes int64
	// Timeout bounds one compile request. Default: 30s.
	Timeout time.Duration
	// AllowOrigins enables CORS for the listed origins.
	AllowOrigins []string
	// MaskInternalErrors replaces the message of internal errors.
	MaskInternalErrors bool

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// CompileRequest selects a document and the generator options. GET requests
// carry it in the query string, POST requests as a JSON body.
type CompileRequest struct {
	// Source is an http(s) URL of the document.
	Source string `schema:"source" json:"source,omitempty" validate:"omitempty,http_url"`
	// Document is the document inline: a JSON value, or a string holding
	// JSON or YAML text.
	Document json.RawMessage `schema:"-" json:"document,omitempty"`
	Format   string          `schema:"format" json:"format,omitempty" validate:"omitempty,oneof=json yaml"`

	SchemaPath     string   `schema:"schemaPath" json:"schemaPath,omitempty"`
	Ignore         []string `schema:"ignore" json:"ignore,omitempty" validate:"dive,glob"`
	Package        string   `schema:"package" json:"package,omitempty" validate:"omitempty,gopkg"`
	Export         bool     `schema:"export" json:"export,omitempty"`
	Strict         bool     `schema:"strict" json:"strict,omitempty"`
	WithoutRuntime bool     `schema:"withoutRuntime" json:"withoutRuntime,omitempty"`
}

// CompileResponse holds the generated files keyed by file name.
type CompileResponse struct {
	Package string                   `json:"package"`
	Files   map[string]string        `json:"files"`
	Order   []string                 `json:"order"`
	Schemas []compiler.SchemaSummary `json:"schemas"`
	Ignored []string                 `json:"ignored,omitempty"`
	Digest  string                   `json:"digest"`
}

// Server is the compile service.
type Server struct {
	cfg     Config
	decoder *schema.Decoder
	handler http.Handler
}

// New returns a Server with defaults applied to cfg.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = &fetch.Fetcher{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = fetch.DefaultMaxBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	s := &Server{cfg: cfg, decoder: decoder}

	compile := rateLimit(cfg.Rate, cfg.Burst)(http.HandlerFunc(s.compile))
	mux := http.NewServeMux()
	mux.Handle("/v1/compile", compile)
	mux.HandleFunc("/healthz", s.healthz)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, Errorf(CodeNotFound, "no route for %s", r.URL.Path))
	})

	s.handler = logging(cfg.Logger)(cors(cfg.AllowOrigins)(mux))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) compile(w http.ResponseWriter, r *http.Request) {
	req, svcErr := s.decode(w, r)
	if svcErr != nil {
		writeError(w, r, svcErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	res, err := s.run(ctx, req)
	if err != nil {
		svcErr := transformError(err, s.cfg.MaskInternalErrors)
		if svcErr.Code == CodeInternal {
			slogctx.FromCtx(ctx).ErrorContext(ctx, "compile failed", slog.Any("error", err))
		}
		writeError(w, r, svcErr)
		return
	}
	writeResult(w, r, http.StatusOK, res)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*CompileRequest, *Error) {
	var req CompileRequest
	switch r.Method {
	case http.MethodGet:
		if err := s.decoder.Decode(&req, r.URL.Query()); err != nil {
			return nil, Errorf(CodeInvalidArgument, "failed to decode query: %v", err)
		}
		if req.Source == "" {
			return nil, Errorf(CodeInvalidArgument, "Source: required").WithDetail("Source", "required")
		}
	case http.MethodPost:
		body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, Errorf(CodeInvalidArgument, "request body too large")
			}
			return nil, Errorf(CodeInvalidArgument, "failed to decode body: %v", err)
		}
		if len(req.Document) == 0 && req.Source == "" {
			return nil, Errorf(CodeInvalidArgument, "one of document or source is required")
		}
		if len(req.Document) > 0 && req.Source != "" {
			return nil, Errorf(CodeInvalidArgument, "document and source are mutually exclusive")
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		return nil, Errorf(CodeMethodNotAllowed, "method %s not allowed", r.Method)
	}

	if err := validate.Struct(req); err != nil {
		return nil, transformError(err, false)
	}
	return &req, nil
}

// document returns the request's document bytes and format.
func (s *Server) document(ctx context.Context, req *CompileRequest) ([]byte, jsschema.Format, error) {
	format := jsschema.Format(req.Format)
	if len(req.Document) == 0 {
		data, err := s.cfg.Fetcher.Fetch(ctx, req.Source)
		if err != nil {
			if errors.Is(err, fetch.ErrTooLarge) || ctx.Err() != nil {
				return nil, "", err
			}
			return nil, "", &fetchError{err: err}
		}
		if format == "" {
			format = jsschema.DetectFormat(req.Source)
		}
		return data, format, nil
	}

	var text string
	if err := json.Unmarshal(req.Document, &text); err == nil {
		return []byte(text), format, nil
	}
	if format == "" {
		format = jsschema.FormatJSON
	}
	return req.Document, format, nil
}

func (s *Server) run(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	doc, format, err := s.document(ctx, req)
	if err != nil {
		return nil, err
	}

	pkg := req.Package
	if pkg == "" {
		pkg = jsvgen.DefaultPackage
	}
	mem := sink.NewMemory()
	res, err := jsvgen.Generate(ctx, &jsvgen.Config{
		Source:           req.Source,
		Document:         doc,
		Format:           format,
		SchemaPath:       req.SchemaPath,
		Ignore:           req.Ignore,
		Package:          pkg,
		ExportValidators: req.Export,
		WithoutRuntime:   req.WithoutRuntime,
		Strict:           req.Strict,
		TracerProvider:   s.cfg.TracerProvider,
		MeterProvider:    s.cfg.MeterProvider,
	}, mem)
	if err != nil {
		return nil, err
	}

	files := make(map[string]string, len(res.Files))
	for _, name := range res.Files {
		files[name] = string(mem.Get(name))
	}
	return &CompileResponse{
		Package: res.Package,
		Files:   files,
		Order:   res.Files,
		Schemas: res.Schemas,
		Ignored: res.Ignored,
		Digest:  res.Digest.String(),
	}, nil
}
