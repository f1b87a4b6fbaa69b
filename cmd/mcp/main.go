// Command mcp serves the transcript tools over stdio. Stdout carries the
// protocol, so logs go to stderr.
package main

import (
	"flag"
	"log/slog"
	"os"

	mcpadapter "github.com/eixo/medical-scribe/internal/adapters/mcp"
	"github.com/eixo/medical-scribe/internal/bootstrap"
	"github.com/eixo/medical-scribe/internal/observability/logging"
)

var version = "dev"

func main() {
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", *level))

	srv := mcpadapter.NewServer(bootstrap.NewAnalyzer(nil), version)
	slog.Info("mcp_serving", "transport", "stdio", "version", version)
	if err := srv.ServeStdio(); err != nil {
		slog.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
