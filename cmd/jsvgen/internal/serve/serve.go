package serve

import (
	"context"
	"errors"
	"net/http"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/broady/jsvgen/internal/fetch"
	"github.com/broady/jsvgen/internal/server"
)

type Cmd struct {
	Addr         string        `help:"Address to listen on." default:"localhost:9000" short:"a"`
	Rate         int           `help:"Requests per second allowed per client address." default:"5"`
	Burst        int           `help:"Request burst allowed per client address." default:"10"`
	Timeout      time.Duration `help:"Time limit for one compile request." default:"30s"`
	MaxBytes     int64         `help:"Size limit of fetched or posted documents in bytes." name:"max-bytes" default:"33554432"`
	AllowOrigins []string      `help:"Origins allowed to call the service from a browser. Repeatable." name:"allow-origin"`
	MaskErrors   bool          `help:"Hide internal error messages from clients." name:"mask-errors"`
}

func (c *Cmd) Run(ctx context.Context) error {
	logger := slogctx.FromCtx(ctx)
	srv := server.New(server.Config{
		Logger:             logger,
		Fetcher:            &fetch.Fetcher{MaxBytes: c.MaxBytes},
		Rate:               c.Rate,
		Burst:              c.Burst,
		MaxBodyBytes:       c.MaxBytes,
		Timeout:            c.Timeout,
		AllowOrigins:       c.AllowOrigins,
		MaskInternalErrors: c.MaskErrors,
	})

	httpServer := &http.Server{
		Addr:              c.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "jsvgen serve listening", "addr", "http://"+c.Addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.InfoContext(ctx, "jsvgen serve stopped")
	return nil
}
