package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cukedash/internal/reportserver"
	"cukedash/internal/telemetry"
)

// serveReport is a test seam for running the dashboard server.
var serveReport = reportserver.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .cukedash.yml)")
		addr := fs.String("addr", "", "Address to listen on (overrides server.addr)")
		duckdbPath := fs.String("duckdb", "", "Export uploads to this DuckDB file (overrides server.duckdb_path)")
		assetsBaseURL := fs.String("assets-base-url", "", "Base URL for dashboard assets")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintln(stderr, "Too many arguments")
			return ExitUsage
		}

		cfg, closer, err := loadConfig(*configPath, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Config error:\n%v\n", err)
			return ExitError
		}
		defer closer.Close()
		if *addr != "" {
			cfg.Server.Addr = *addr
		}
		if *duckdbPath != "" {
			cfg.Server.DuckDBPath = *duckdbPath
		}

		sender := newSender(cfg.SMTP)
		if !sender.Configured() {
			slog.Warn("smtp credentials not set; email delivery disabled")
		}
		serverCfg := reportserver.Config{
			Addr:               cfg.Server.Addr,
			AssetsBaseURL:      *assetsBaseURL,
			MaxUploadBytes:     cfg.Server.MaxUploadBytes,
			MaxAttachmentBytes: cfg.SMTP.MaxAttachmentBytes,
			DuckDBPath:         cfg.Server.DuckDBPath,
			Sender:             sender,
			Metrics:            telemetry.NewMetrics(),
			Logger:             slog.Default(),
			OnListen: func(addr string) {
				fmt.Fprintf(stdout, "Serving dashboard at http://%s\n", addr)
			},
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := serveReport(ctx, serverCfg); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
