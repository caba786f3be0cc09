package di

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-telegram/bot"
	activityRepo "github.com/reshetovitsme/file-share-bot/internal/modules/activity/repository"
	activityService "github.com/reshetovitsme/file-share-bot/internal/modules/activity/service"
	broadcastService "github.com/reshetovitsme/file-share-bot/internal/modules/broadcast/service"
	channelRepo "github.com/reshetovitsme/file-share-bot/internal/modules/channel/repository"
	channelService "github.com/reshetovitsme/file-share-bot/internal/modules/channel/service"
	cleanupRepo "github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/repository"
	cleanupService "github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/service"
	conversationRepo "github.com/reshetovitsme/file-share-bot/internal/modules/conversation/repository"
	conversationService "github.com/reshetovitsme/file-share-bot/internal/modules/conversation/service"
	deliveryService "github.com/reshetovitsme/file-share-bot/internal/modules/delivery/service"
	feedService "github.com/reshetovitsme/file-share-bot/internal/modules/feed/service"
	filterRepo "github.com/reshetovitsme/file-share-bot/internal/modules/filter/repository"
	filterService "github.com/reshetovitsme/file-share-bot/internal/modules/filter/service"
	settingsRepo "github.com/reshetovitsme/file-share-bot/internal/modules/settings/repository"
	settingsService "github.com/reshetovitsme/file-share-bot/internal/modules/settings/service"
	userRepo "github.com/reshetovitsme/file-share-bot/internal/modules/user/repository"
	userService "github.com/reshetovitsme/file-share-bot/internal/modules/user/service"
	"github.com/reshetovitsme/file-share-bot/internal/shared/config"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	httpServer "github.com/reshetovitsme/file-share-bot/internal/transport/http"
	"github.com/reshetovitsme/file-share-bot/internal/transport/mtproto"
	telegramHandler "github.com/reshetovitsme/file-share-bot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

const mtprotoSessionFile = "mtproto.session"

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register MongoDB, only resolved with the mongo driver
	do.Provide(injector, func(i do.Injector) (*storage.MongoDB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		db, err := storage.NewMongoDB(context.Background(), cfg.MongoDBURL, cfg.MongoDBDatabase)
		if err != nil {
			return nil, oops.With("database", cfg.MongoDBDatabase, "context", "failed to initialize MongoDB").Wrap(err)
		}
		return db, nil
	})

	// Register storage health check
	do.Provide(injector, func(i do.Injector) (storage.Pinger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.StorageDriver == config.StorageDriverMongo {
			db, err := do.Invoke[*storage.MongoDB](i)
			if err != nil {
				return nil, err
			}
			return db, nil
		}
		return storage.DirPinger(cfg.StoragePath), nil
	})

	// Register Repositories
	do.Provide(injector, func(i do.Injector) (filterRepo.Repository, error) {
		return provideRepository(i, "filter", filterRepo.NewFileStorage, filterRepo.NewMongoStorage)
	})
	do.Provide(injector, func(i do.Injector) (userRepo.Repository, error) {
		return provideRepository(i, "user", userRepo.NewFileStorage, userRepo.NewMongoStorage)
	})
	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		return provideRepository(i, "channel", channelRepo.NewFileStorage, channelRepo.NewMongoStorage)
	})
	do.Provide(injector, func(i do.Injector) (settingsRepo.Repository, error) {
		return provideRepository(i, "settings", settingsRepo.NewFileStorage, settingsRepo.NewMongoStorage)
	})
	do.Provide(injector, func(i do.Injector) (conversationRepo.Repository, error) {
		return provideRepository(i, "conversation", conversationRepo.NewFileStorage, conversationRepo.NewMongoStorage)
	})
	do.Provide(injector, func(i do.Injector) (cleanupRepo.Repository, error) {
		return provideRepository(i, "deletion job", cleanupRepo.NewFileStorage, cleanupRepo.NewMongoStorage)
	})
	do.Provide(injector, func(i do.Injector) (activityRepo.Repository, error) {
		return provideRepository(i, "activity log", activityRepo.NewFileStorage, activityRepo.NewMongoStorage)
	})

	// Register Bot
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		b, err := bot.New(cfg.TelegramBotToken)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}
		return b, nil
	})

	// Register Services
	do.Provide(injector, func(i do.Injector) (*settingsService.Service, error) {
		return settingsService.New(do.MustInvoke[settingsRepo.Repository](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*filterService.Service, error) {
		svc := filterService.New(
			do.MustInvoke[filterRepo.Repository](i),
			do.MustInvoke[*settingsService.Service](i),
		)
		if err := svc.Restore(context.Background()); err != nil {
			return nil, err
		}
		return svc, nil
	})

	do.Provide(injector, func(i do.Injector) (*userService.Service, error) {
		return userService.New(do.MustInvoke[userRepo.Repository](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		return channelService.New(do.MustInvoke[channelRepo.Repository](i), do.MustInvoke[*bot.Bot](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*conversationService.Service, error) {
		return conversationService.New(
			do.MustInvoke[conversationRepo.Repository](i),
			do.MustInvoke[*channelService.Service](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*deliveryService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return deliveryService.New(do.MustInvoke[*bot.Bot](i), cfg.SourceChannelID, cfg.DeliveryDelay), nil
	})

	do.Provide(injector, func(i do.Injector) (*cleanupService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cleanupService.New(do.MustInvoke[cleanupRepo.Repository](i), do.MustInvoke[*bot.Bot](i), cfg.CleanupInterval), nil
	})

	do.Provide(injector, func(i do.Injector) (*broadcastService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return broadcastService.New(do.MustInvoke[*bot.Bot](i), do.MustInvoke[*userService.Service](i), cfg.DeliveryDelay), nil
	})

	do.Provide(injector, func(i do.Injector) (*activityService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return activityService.New(do.MustInvoke[activityRepo.Repository](i), do.MustInvoke[*bot.Bot](i), cfg.LogChannelID), nil
	})

	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		return feedService.New(do.MustInvoke[*filterService.Service](i)), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		b := do.MustInvoke[*bot.Bot](i)

		handler := telegramHandler.New(cfg, b, telegramHandler.Services{
			Filters:       do.MustInvoke[*filterService.Service](i),
			Users:         do.MustInvoke[*userService.Service](i),
			Channels:      do.MustInvoke[*channelService.Service](i),
			Settings:      do.MustInvoke[*settingsService.Service](i),
			Conversations: do.MustInvoke[*conversationService.Service](i),
			Delivery:      do.MustInvoke[*deliveryService.Service](i),
			Cleanup:       do.MustInvoke[*cleanupService.Service](i),
			Broadcast:     do.MustInvoke[*broadcastService.Service](i),
			Activity:      do.MustInvoke[*activityService.Service](i),
		})
		handler.RegisterCommands(b)
		return handler, nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		server := httpServer.New(cfg, do.MustInvoke[*feedService.Service](i), do.MustInvoke[storage.Pinger](i))
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Deletion Watcher
	do.Provide(injector, func(i do.Injector) (*mtproto.Watcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.MTProtoEnabled() {
			return nil, oops.Errorf("api_id and api_hash are required for the deletion watcher")
		}
		return mtproto.New(
			cfg.APIID,
			cfg.APIHash,
			cfg.TelegramBotToken,
			filepath.Join(cfg.StoragePath, mtprotoSessionFile),
			cfg.SourceChannelID,
			do.MustInvoke[*filterService.Service](i),
		), nil
	})

	return injector, nil
}

func provideRepository[R any](
	i do.Injector,
	name string,
	newFile func(basePath string) (R, error),
	newMongo func(db *storage.MongoDB) R,
) (R, error) {
	cfg := do.MustInvoke[*config.Config](i)

	if cfg.StorageDriver == config.StorageDriverMongo {
		db, err := do.Invoke[*storage.MongoDB](i)
		if err != nil {
			var zero R
			return zero, err
		}
		return newMongo(db), nil
	}

	repo, err := newFile(cfg.StoragePath)
	if err != nil {
		var zero R
		return zero, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize "+name+" repository").Wrap(err)
	}
	return repo, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("HTTP server shutdown failed", "error", err)
		}
	}

	if cleanup, err := do.Invoke[*cleanupService.Service](injector); err == nil && cleanup != nil {
		cleanup.Stop()
	}

	if handler, err := do.Invoke[*telegramHandler.Handler](injector); err == nil && handler != nil {
		handler.Wait()
	}

	cfg, err := do.Invoke[*config.Config](injector)
	if err == nil && cfg.StorageDriver == config.StorageDriverMongo {
		if db, err := do.Invoke[*storage.MongoDB](injector); err == nil && db != nil {
			return db.Close(ctx)
		}
	}

	return nil
}
