package mtproto

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/samber/oops"
)

// Bot API channel ids are the MTProto id shifted below this offset.
const channelIDOffset = int64(1_000_000_000_000)

// OriginDeleter removes the filters announced by deleted channel posts.
type OriginDeleter interface {
	DeleteByOrigin(ctx context.Context, originMessageIDs ...int) ([]string, error)
}

// Watcher logs in as the bot over MTProto to observe message deletions in
// the source channel, which the Bot API never reports.
type Watcher struct {
	client      *telegram.Client
	botToken    string
	sessionPath string
	channelID   int64
	filters     OriginDeleter
}

// New creates a watcher for the given Bot API source channel id.
func New(appID int, appHash, botToken, sessionPath string, sourceChannelID int64, filters OriginDeleter) *Watcher {
	w := &Watcher{
		botToken:    botToken,
		sessionPath: sessionPath,
		channelID:   MTProtoChannelID(sourceChannelID),
		filters:     filters,
	}

	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnDeleteChannelMessages(w.onDeleteChannelMessages)

	w.client = telegram.NewClient(appID, appHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: sessionPath},
		UpdateHandler:  dispatcher,
	})
	return w
}

// Run connects and blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.ensureSessionDir(); err != nil {
		return err
	}

	return w.client.Run(ctx, func(ctx context.Context) error {
		status, err := w.client.Auth().Status(ctx)
		if err != nil {
			return oops.With("context", "failed to get MTProto auth status").Wrap(err)
		}
		if !status.Authorized {
			if _, err := w.client.Auth().Bot(ctx, w.botToken); err != nil {
				return oops.With("context", "failed to log in over MTProto").Wrap(err)
			}
		}

		// the server only pushes updates once the session has asked for state
		if _, err := w.client.API().UpdatesGetState(ctx); err != nil {
			return oops.With("context", "failed to subscribe to updates").Wrap(err)
		}

		slog.Info("Deletion watcher connected", "channel_id", BotAPIChannelID(w.channelID))
		<-ctx.Done()
		return ctx.Err()
	})
}

// ensureSessionDir creates the session directory, which the mongo backend
// never touches.
func (w *Watcher) ensureSessionDir() error {
	dir := filepath.Dir(w.sessionPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return oops.With("path", dir, "context", "failed to create MTProto session directory").Wrap(err)
	}
	return nil
}

func (w *Watcher) onDeleteChannelMessages(ctx context.Context, _ tg.Entities, update *tg.UpdateDeleteChannelMessages) error {
	if update.ChannelID != w.channelID {
		return nil
	}

	deleted, err := w.filters.DeleteByOrigin(ctx, update.Messages...)
	if err != nil {
		slog.Error("Failed to drop filters of deleted posts", "message_ids", update.Messages, "error", err)
		return nil
	}
	for _, keyword := range deleted {
		slog.Info("Filter removed with its keyword post", "keyword", keyword)
	}
	return nil
}

// MTProtoChannelID converts a Bot API channel id (-100...) to the bare id.
func MTProtoChannelID(botAPIID int64) int64 {
	return -botAPIID - channelIDOffset
}

// BotAPIChannelID converts a bare MTProto channel id to the Bot API form.
func BotAPIChannelID(id int64) int64 {
	return -(channelIDOffset + id)
}
