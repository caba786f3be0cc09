package telegram

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot/models"
	filterDomain "github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger"
)

// RunIngest processes source-channel posts one at a time, in arrival order,
// until ctx is done.
func (h *Handler) RunIngest(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case post := <-h.posts:
			h.processChannelPost(ctx, post)
		}
	}
}

func (h *Handler) enqueuePost(ctx context.Context, post *models.Message) {
	if post.Chat.ID != h.cfg.SourceChannelID {
		return
	}
	select {
	case h.posts <- post:
	case <-ctx.Done():
	}
}

func (h *Handler) processChannelPost(ctx context.Context, post *models.Message) {
	if keyword, ok := filterDomain.KeywordFromPost(post.Text); ok && !hasMedia(post) {
		filter, created, err := h.Filters.Activate(ctx, keyword, post.ID)
		if err != nil {
			slog.Error("Failed to activate filter", "keyword", keyword, "message_id", post.ID, "error", err)
			return
		}
		slog.Info("Filter active", "keyword", filter.Keyword, "created", created, "messages", len(filter.MessageIDs))
		if created {
			h.Activity.FilterCreated(ctx, filter.Keyword, messenger.DeepLink(h.botUsername, filter.Keyword))
		}
		return
	}

	if !hasMedia(post) {
		return
	}

	replyTo := 0
	if post.ReplyToMessage != nil {
		replyTo = post.ReplyToMessage.ID
	}

	filter, err := h.Filters.AppendMedia(ctx, post.ID, replyTo)
	switch {
	case errors.Is(err, sharedErrors.ErrNoActiveFilter):
		slog.Warn("Media post without a filter ignored", "message_id", post.ID)
	case err != nil:
		slog.Error("Failed to add media to filter", "message_id", post.ID, "error", err)
	default:
		slog.Info("Media added to filter", "keyword", filter.Keyword, "message_id", post.ID, "messages", len(filter.MessageIDs))
	}
}

func hasMedia(msg *models.Message) bool {
	return len(msg.Photo) > 0 ||
		msg.Video != nil ||
		msg.Document != nil ||
		msg.Audio != nil ||
		msg.Animation != nil ||
		msg.Voice != nil ||
		msg.VideoNote != nil ||
		msg.Sticker != nil
}
