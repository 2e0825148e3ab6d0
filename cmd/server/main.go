package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"agriverse/config"
	"agriverse/database"
	"agriverse/pkg/ai"
	"agriverse/pkg/auth"
	"agriverse/pkg/blob"
	healthCtrl "agriverse/pkg/health/controllerImp"
	"agriverse/pkg/logger"
	"agriverse/pkg/schedule/generator"
	"agriverse/pkg/weather"
	"agriverse/router"
)

func main() {
	root := &cobra.Command{
		Use:           "agriverse",
		Short:         "AgriVerse farm management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE:  func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE:  func(*cobra.Command, []string) error { return migrate() },
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func migrate() error {
	cfg := config.Load()
	log, err := logger.New(cfg.AppMode)
	if err != nil {
		return err
	}
	defer log.Sync()
	if _, err := database.OpenAndMigrate(cfg); err != nil {
		return err
	}
	log.Info("schema up to date", "driver", cfg.DBDriver)
	return nil
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	log, err := logger.New(cfg.AppMode)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("starting", "config", cfg.Redacted())

	db, err := database.OpenAndMigrate(cfg)
	if err != nil {
		return err
	}

	checks := map[string]healthCtrl.Check{}

	var cache weather.Cache
	if cfg.RedisAddr != "" {
		rc, err := weather.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("weather cache disabled", "error", err)
		} else {
			defer rc.Close()
			cache = rc
			checks["cache"] = rc.Ping
		}
	}

	var store blob.Store
	if cfg.MinioEndpoint != "" {
		ms, err := blob.NewMinio(ctx, cfg)
		if err != nil {
			log.Warn("photo storage disabled", "error", err)
		} else {
			store = ms
			checks["object_store"] = ms.Ping
		}
	}

	var template []generator.Task
	if cfg.ScheduleTemplatePath != "" {
		if template, err = generator.LoadTemplate(cfg.ScheduleTemplatePath); err != nil {
			log.Warn("schedule template ignored, using builtin", "path", cfg.ScheduleTemplatePath, "error", err)
			template = nil
		}
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	h := router.Wire(cfg, router.Deps{
		DB:       db,
		LLM:      ai.New(ctx, cfg, log),
		Weather:  weather.New(cfg, cache, log),
		Store:    store,
		Template: template,
		Tokens:   tokens,
		Checks:   checks,
		Log:      log,
	})
	e := router.New(echo.New(), h, router.Options{Tokens: tokens, CORSOrigins: cfg.CORSOrigins, Log: log})

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port)
		errc <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
