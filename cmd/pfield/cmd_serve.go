package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdrpinto/pfield/internal/metrics"
	"github.com/pdrpinto/pfield/internal/vizweb"
)

var (
	serveAddr     string
	serveInterval time.Duration
)

// serveCmd starts the browser visualizer
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the step-by-step walk visualizer",
	Long: `Starts an HTTP server with:
  /         the visualizer page
  /init     create a random grid and a fresh walk
  /next     advance the walk by one move
  /ws       stream the walk over a websocket
  /metrics  Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 50*time.Millisecond, "Delay between streamed steps")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := vizweb.New(logger, metrics.New(), serveInterval)
	srv := &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", serveAddr)
	if err != nil {
		return err
	}
	logger.Info("visualizer listening", zap.String("addr", "http://"+ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
