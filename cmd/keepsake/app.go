package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"keepsake/internal/api"
	"keepsake/internal/config"
	"keepsake/internal/httpclient"
	"keepsake/internal/links"
	"keepsake/internal/logging"
)

// app holds what every command shares.
type app struct {
	cfg      config.AppConfig
	logger   *logrus.Logger
	closeLog func() error
	api      *api.Client
	out      io.Writer
	copier   links.Copier
}

func newApp(load config.ConfigLoad, out io.Writer) (*app, error) {
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	opts := []httpclient.Option{httpclient.WithLogger(logger)}
	if cfg.API.RateLimit > 0 {
		opts = append(opts, httpclient.WithRateLimit(cfg.API.RateLimit))
	}
	hc := httpclient.New(cfg.API.Timeout, opts...)

	logger.WithFields(logrus.Fields{
		"api":      cfg.API.BaseURL,
		"web":      cfg.WebBaseURL,
		"database": cfg.DatabasePath,
		"timeout":  hc.GetTimeout(),
	}).Debug("configuration loaded")

	return &app{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		api:      api.NewClient(cfg.API.BaseURL, hc),
		out:      out,
		copier:   links.SystemClipboard,
	}, nil
}

func (a *app) close() {
	if err := a.closeLog(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to close log file:", err)
	}
}

// openLinks opens the link history, creating the database on first use.
func (a *app) openLinks() (*sql.DB, error) {
	if dir := filepath.Dir(a.cfg.DatabasePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := links.Open(a.cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed opening the Keepsake database: %w", err)
	}
	if err := links.InitSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise the Keepsake database: %w", err)
	}
	return db, nil
}

// saveLink records a freshly created link. A failing history is logged and
// the link is still returned since the capsule or gift already exists.
func (a *app) saveLink(ctx context.Context, kind, ref, url string) *links.Link {
	fallback := &links.Link{Kind: kind, Ref: ref, URL: url}

	db, err := a.openLinks()
	if err != nil {
		a.logger.WithError(err).Warn("link history unavailable")
		return fallback
	}
	defer db.Close()

	l, err := links.Save(ctx, db, kind, ref, url)
	if err != nil {
		a.logger.WithError(err).Warn("failed to record link")
		return fallback
	}
	a.logger.WithFields(logrus.Fields{"kind": kind, "ref": ref}).Debug("link recorded")
	return l
}
