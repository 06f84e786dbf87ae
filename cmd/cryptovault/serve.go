package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"cryptovault/pkg/appdir"
	"cryptovault/pkg/cipher"
	"cryptovault/pkg/engine"
	"cryptovault/pkg/log"
	"cryptovault/pkg/management"
	"cryptovault/pkg/metrics"
	"cryptovault/pkg/server"
)

var serveCommand = &cli.Command{
	Name:    "serve",
	Aliases: []string{"up"},
	Usage:   "run the HTTP service (POST /encrypt, POST /decrypt)",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "listen `ADDRESS`"},
		&cli.StringSliceFlag{Name: "cors-origin", Usage: "allowed CORS `ORIGIN` (repeatable)"},
		&cli.StringFlag{Name: "log-db", Usage: "SQLite log store `PATH`; empty string disables it"},
		&cli.BoolFlag{Name: "no-management", Usage: "do not open the management socket"},
		&cli.BoolFlag{Name: "no-compress", Usage: "never gzip responses"},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("listen") {
		cfg.ListenAddr = c.String("listen")
	}
	if c.IsSet("cors-origin") {
		cfg.CORSOrigins = c.StringSlice("cors-origin")
	}
	if c.IsSet("log-db") {
		cfg.LogDB = c.String("log-db")
	}
	if c.Bool("no-management") {
		cfg.EnableManagement = false
	}
	if c.Bool("no-compress") {
		cfg.CompressResponses = false
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if cfg.LogDB != "" {
		if _, err := appdir.Ensure(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if err := log.Init(appdir.Path(cfg.LogDB)); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer log.Close()
	}
	log.Info().Str("config", cfg.ConfigFile).Str("version", Version).Msg("starting cryptovault")

	m := metrics.New()
	eng := engine.New(cipher.DefaultRegistry(), engine.WithObserver(m))
	srv := server.New(cfg, eng, m)

	var mgmt *management.Server
	if cfg.EnableManagement {
		mgmt = management.NewServer(cfg.ManagementSocket, cfg.ManagementPassword)
		mgmt.RegisterEngine(eng, m)
		if err := mgmt.Start(); err != nil {
			log.Warn().Err(err).Msg("management socket disabled")
			mgmt = nil
		}
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if mgmt != nil {
			mgmt.Stop()
		}
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	log.Info().Msg("stopped")
	return nil
}
