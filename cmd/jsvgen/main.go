package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	slogctx "github.com/veqryn/slog-context"

	"github.com/broady/jsvgen/cmd/jsvgen/internal/check"
	"github.com/broady/jsvgen/cmd/jsvgen/internal/gen"
	"github.com/broady/jsvgen/cmd/jsvgen/internal/serve"
)

type CLI struct {
	LogLevel string `help:"Log level: debug, info, warn or error." name:"log-level" env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate Go validators from a JSON Schema or OpenAPI document."`
	Check   check.Cmd  `cmd:"" help:"Report whether generated files match the document without writing them."`
	Serve   serve.Cmd  `cmd:"" help:"Run the HTTP compile service."`
}

func newLogger(level string) *slog.Logger {
	lv := new(slog.LevelVar)
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err == nil {
		lv.Set(l)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("jsvgen"),
		kong.Description("Generate Go validators from JSON Schema."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = slogctx.NewCtx(ctx, newLogger(cli.LogLevel))
	kctx.BindTo(ctx, (*context.Context)(nil))

	err := kctx.Run()
	stop()
	kctx.FatalIfErrorf(err)
}
