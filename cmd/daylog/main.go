package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/romanzh1/daylog/internal/cache"
	"github.com/romanzh1/daylog/internal/config"
	"github.com/romanzh1/daylog/internal/handler"
	"github.com/romanzh1/daylog/internal/logger"
	"github.com/romanzh1/daylog/internal/repository"
	"github.com/romanzh1/daylog/internal/service"
	"go.uber.org/zap"
)

func main() {
	var cli handler.CLI
	kctx := kong.Parse(&cli,
		kong.Name("daylog"),
		kong.Description("Daily habit, prayer and routine scoring"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.EnvFile...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	_, sync, err := logger.New(cfg.Env)
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer sync()

	if err := run(kctx, &cli, cfg); err != nil {
		zap.S().Errorw("command failed", "command", kctx.Command(), "error", err)
		sync()
		os.Exit(1)
	}
}

func run(kctx *kong.Context, cli *handler.CLI, cfg *config.Config) error {
	if cli.Migrate.Reset && cfg.IsProduction() {
		return fmt.Errorf("migrate --reset is disabled in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := repository.NewDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxIdle, cfg.Database.MaxOpen)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer repo.Close()

	if kctx.Command() != "migrate" {
		if err := repo.Up(); err != nil {
			return err
		}
	}

	dayCache := cache.New(cfg.Cache.RedisURL, cfg.Cache.TTL)
	defer dayCache.Close()

	zap.S().Debugw("daylog started", "env", cfg.Env, "driver", repo.Driver(), "cache", dayCache.Backend())

	svc := service.NewService(repo, service.WithCache(dayCache))

	return kctx.Run(&handler.Context{
		Context:  ctx,
		Service:  svc,
		Migrator: repo,
		UserID:   cli.Actor,
		JSON:     cli.JSON,
		Out:      os.Stdout,
		In:       os.Stdin,
	})
}
