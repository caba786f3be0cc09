package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/file-share-bot/internal/di"
	cleanupService "github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/service"
	feedService "github.com/reshetovitsme/file-share-bot/internal/modules/feed/service"
	"github.com/reshetovitsme/file-share-bot/internal/shared/config"
	httpServer "github.com/reshetovitsme/file-share-bot/internal/transport/http"
	"github.com/reshetovitsme/file-share-bot/internal/transport/mtproto"
	telegramHandler "github.com/reshetovitsme/file-share-bot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
)

var logLevel = new(slog.LevelVar)

func main() {
	// Setup structured logging with multiple handlers using slog-multi
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	logger := slog.New(slogmulti.Fanout(textHandler, jsonHandler))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("Startup failed", "error", err)
		os.Exit(1)
	}
}

// run wires the application and blocks until a shutdown signal. Any error it
// returns happened during startup.
func run() error {
	// Setup dependency injection
	injector, err := di.Setup()
	if err != nil {
		return oops.With("context", "failed to setup dependency injection").Wrap(err)
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return oops.With("context", "invalid configuration").Wrap(err)
	}
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		slog.Warn("Unknown log level, using info", "log_level", cfg.LogLevel)
	}

	b, err := do.Invoke[*bot.Bot](injector)
	if err != nil {
		return oops.With("context", "failed to start bot").Wrap(err)
	}
	handler, err := do.Invoke[*telegramHandler.Handler](injector)
	if err != nil {
		return oops.With("context", "failed to initialize handlers").Wrap(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	me, err := b.GetMe(ctx)
	if err != nil {
		return oops.With("context", "failed to get bot info").Wrap(err)
	}
	handler.SetBotUsername(me.Username)
	do.MustInvoke[*feedService.Service](injector).SetBotUsername(me.Username)

	// Start auto-delete sweeps
	if err := do.MustInvoke[*cleanupService.Service](injector).Start(ctx); err != nil {
		return err
	}

	// Source channel posts are ingested one at a time
	go handler.RunIngest(ctx)

	// Start HTTP server
	server := do.MustInvoke[*httpServer.Server](injector)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
			cancel()
		}
	}()

	if cfg.MTProtoEnabled() {
		watcher := do.MustInvoke[*mtproto.Watcher](injector)
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Deletion watcher stopped", "error", err)
			}
		}()
	} else {
		slog.Info("Deletion watcher disabled, use /delete to remove filters")
	}

	go b.Start(ctx)

	slog.Info("Application started",
		"bot", me.Username,
		"port", cfg.HTTPPort,
		"storage", cfg.StorageDriver,
		"env", cfg.AppEnv)
	slog.Info("Press Ctrl+C to stop")

	<-ctx.Done()
	slog.Info("Shutting down...")
	return nil
}
