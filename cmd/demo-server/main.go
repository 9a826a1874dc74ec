package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"keepsake/internal/logging"
)

func main() {
	app := &cli.Command{
		Name:  "demo-server",
		Usage: "In-memory keepsake API for demos and local testing",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "Port to run the demo server on", Value: 5000},
			&cli.StringFlag{Name: "host", Usage: "Host to bind the demo server to", Value: "localhost"},
			&cli.StringFlag{Name: "web-url", Usage: "Base URL used in gift view links", Value: "http://localhost:3000"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Value: "info"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			level, err := logging.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			logger := logrus.New()
			logger.SetLevel(level)
			return serve(ctx, fmt.Sprintf("%s:%d", c.String("host"), c.Int("port")), newStore(c.String("web-url")), logger)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func serve(ctx context.Context, addr string, s *store, logger *logrus.Logger) error {
	server := &http.Server{
		Addr:    addr,
		Handler: logRequests(createHandler(s), logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Demo server starting on http://%s", addr)
		logger.Infof("Point keepsake at it with KEEPSAKE_API_URL=http://%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down demo server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Demo server stopped")
	return nil
}

func logRequests(next http.Handler, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request")
	})
}
