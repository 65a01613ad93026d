package server

import (
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
	slogctx "github.com/veqryn/slog-context"
)

// response is the envelope of a successful response.
type response struct {
	Result any `json:"result"`
}

// errorResponse is the envelope of an error response.
type errorResponse struct {
	Error *Error `json:"error"`
}

func writeResult(w http.ResponseWriter, r *http.Request, status int, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response{Result: result}); err != nil {
		slogctx.FromCtx(r.Context()).ErrorContext(r.Context(), "failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, svcErr *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(svcErr.Code.HTTPStatus())
	if err := json.NewEncoder(w).Encode(errorResponse{Error: svcErr}); err != nil {
		// Headers already sent.
		slogctx.FromCtx(r.Context()).ErrorContext(r.Context(), "failed to encode error response",
			slog.String("code", string(svcErr.Code)),
			slog.String("message", svcErr.Message),
			slog.Any("error", err))
	}
}
