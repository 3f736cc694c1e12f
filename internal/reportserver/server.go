package reportserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"cukedash/internal/mailer"
	"cukedash/internal/telemetry"
)

// ReportSender delivers exported reports. *mailer.Mailer satisfies it.
type ReportSender interface {
	Configured() bool
	Send(ctx context.Context, req mailer.Request) (string, error)
}

// Config captures the settings for serving the dashboard.
type Config struct {
	Addr               string
	AssetsBaseURL      string
	MaxUploadBytes     int64
	MaxAttachmentBytes int64
	// DuckDBPath, when set, receives an export of every summarized upload
	// and is served at /data/db.duckdb.
	DuckDBPath string
	Sender     ReportSender
	Metrics    *telemetry.Metrics
	Logger     *slog.Logger
	Now        func() time.Time
	// OnListen, when set, is called with the bound address before serving.
	OnListen func(addr string)
}

const shutdownTimeout = 5 * time.Second

// Serve starts the dashboard HTTP server and blocks until ctx is cancelled
// or the listener fails.
func Serve(ctx context.Context, cfg Config) error {
	if ctx == nil {
		return errors.New("reportserver: context is nil")
	}
	if cfg.Addr == "" {
		return errors.New("reportserver: addr is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	if cfg.OnListen != nil {
		cfg.OnListen(listener.Addr().String())
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
