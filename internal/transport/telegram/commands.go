package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
	conversationDomain "github.com/reshetovitsme/file-share-bot/internal/modules/conversation/domain"
	filterDomain "github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger"
)

func (h *Handler) handleBroadcast(ctx context.Context, msg *models.Message, _ string) {
	if msg.ReplyToMessage == nil {
		h.reply(ctx, msg.Chat.ID, "Reply to the message you want to broadcast with /broadcast.")
		return
	}

	adminChat, messageID := msg.Chat.ID, msg.ReplyToMessage.ID
	h.reply(ctx, adminChat, "📢 Broadcast started, you will get a report when it finishes.")

	h.detach(func() {
		report, err := h.Broadcast.Run(ctx, adminChat, messageID)
		if err != nil {
			slog.Error("Broadcast failed", "error", err)
			h.reply(ctx, adminChat, "❌ Broadcast failed: "+err.Error())
			return
		}
		h.reply(ctx, adminChat, report.String())
	})
}

func (h *Handler) handleFilters(ctx context.Context, msg *models.Message, _ string) {
	filters, err := h.Filters.List(ctx)
	if err != nil {
		slog.Error("Failed to list filters", "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Failed to list filters.")
		return
	}
	if len(filters) == 0 {
		h.reply(ctx, msg.Chat.ID, "📭 No filters yet.\nPost a single word in the source channel to start one.")
		return
	}

	active := h.Filters.Active()
	var text strings.Builder
	text.WriteString("📁 Filters:\n\n")
	for _, f := range filters {
		marker := ""
		if f.Keyword == active {
			marker = " (active)"
		}
		fmt.Fprintf(&text, "#%s%s: %d file(s)\n%s\n", f.Keyword, marker, len(f.MessageIDs), messenger.DeepLink(h.botUsername, f.Keyword))
		if f.AutoDeleteSeconds > 0 {
			fmt.Fprintf(&text, "Auto-delete: %s\n", filterDomain.FormatAutoDelete(f.AutoDelete()))
		}
		text.WriteString("\n")
	}
	h.reply(ctx, msg.Chat.ID, text.String())
}

func (h *Handler) handleDelete(ctx context.Context, msg *models.Message, args string) {
	if args == "" {
		h.reply(ctx, msg.Chat.ID, "Usage: /delete <keyword>")
		return
	}

	err := h.Filters.Delete(ctx, args)
	switch {
	case errors.Is(err, sharedErrors.ErrFilterNotFound):
		h.reply(ctx, msg.Chat.ID, textNotFound)
	case err != nil:
		slog.Error("Failed to delete filter", "keyword", args, "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Failed to delete filter.")
	default:
		h.reply(ctx, msg.Chat.ID, "✅ Filter deleted.")
	}
}

func (h *Handler) handleBan(ctx context.Context, msg *models.Message, args string) {
	h.setBan(ctx, msg, args, true)
}

func (h *Handler) handleUnban(ctx context.Context, msg *models.Message, args string) {
	h.setBan(ctx, msg, args, false)
}

func (h *Handler) setBan(ctx context.Context, msg *models.Message, args string, banned bool) {
	verb := "ban"
	if !banned {
		verb = "unban"
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Usage: /%s <user_id>", verb))
		return
	}
	if banned && h.cfg.IsAdmin(userID) {
		h.reply(ctx, msg.Chat.ID, "❌ Admins cannot be banned.")
		return
	}

	if banned {
		err = h.Users.Ban(ctx, userID)
	} else {
		err = h.Users.Unban(ctx, userID)
	}
	if err != nil {
		slog.Error("Failed to update ban", "user_id", userID, "banned", banned, "error", err)
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("❌ Failed to %s user.", verb))
		return
	}
	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ User %d %sned.", userID, verb))
}

func (h *Handler) handleKeep(ctx context.Context, msg *models.Message, args string) {
	userID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		h.reply(ctx, msg.Chat.ID, "Usage: /keep <user_id>")
		return
	}

	// deliveries go to the private chat, whose id is the user id
	n, err := h.Cleanup.CancelChat(ctx, userID)
	if err != nil {
		slog.Error("Failed to cancel deletions", "user_id", userID, "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Failed to cancel auto-delete.")
		return
	}
	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ Cancelled %d pending auto-delete(s) for user %d.", n, userID))
}

func (h *Handler) handleRestrict(ctx context.Context, msg *models.Message, _ string) {
	enabled, err := h.Settings.ToggleProtectContent(ctx)
	if err != nil {
		slog.Error("Failed to toggle forward protection", "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Failed to update forward protection.")
		return
	}
	if enabled {
		h.reply(ctx, msg.Chat.ID, "🔒 Forward protection enabled.")
		return
	}
	h.reply(ctx, msg.Chat.ID, "🔓 Forward protection disabled.")
}

func (h *Handler) handleAutoDelete(ctx context.Context, msg *models.Message, args string) {
	usage := "Usage: /auto_delete [keyword] <" + strings.Join(filterDomain.AutoDeletePresets, "|") + ">"

	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		h.reply(ctx, msg.Chat.ID, usage)
		return
	}

	delay, err := filterDomain.ParseAutoDelete(fields[len(fields)-1])
	if err != nil {
		h.reply(ctx, msg.Chat.ID, usage)
		return
	}

	if len(fields) == 1 {
		if err := h.Settings.SetAutoDelete(ctx, delay); err != nil {
			slog.Error("Failed to set global auto-delete", "error", err)
			h.reply(ctx, msg.Chat.ID, "❌ Failed to update auto-delete.")
			return
		}
		h.reply(ctx, msg.Chat.ID, "✅ Default auto-delete: "+filterDomain.FormatAutoDelete(delay))
		return
	}

	filter, err := h.Filters.SetAutoDelete(ctx, fields[0], delay)
	switch {
	case errors.Is(err, sharedErrors.ErrFilterNotFound):
		h.reply(ctx, msg.Chat.ID, textNotFound)
	case err != nil:
		slog.Error("Failed to set filter auto-delete", "keyword", fields[0], "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Failed to update auto-delete.")
	default:
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ Auto-delete for #%s: %s", filter.Keyword, filterDomain.FormatAutoDelete(delay)))
	}
}

func (h *Handler) handleAddChannel(ctx context.Context, msg *models.Message, _ string) {
	if err := h.Conversations.Begin(ctx, msg.From.ID, conversationDomain.StateAwaitingChannelName); err != nil {
		slog.Error("Failed to start add-channel flow", "admin_id", msg.From.ID, "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Something went wrong.")
		return
	}
	h.reply(ctx, msg.Chat.ID, "Send the channel name (or /cancel):")
}

func (h *Handler) handleDeleteChannel(ctx context.Context, msg *models.Message, args string) {
	if args == "" {
		h.reply(ctx, msg.Chat.ID, "Usage: /delete_channel <link-or-id>")
		return
	}

	channel, err := h.Channels.Remove(ctx, args)
	switch {
	case errors.Is(err, sharedErrors.ErrChannelNotFound):
		h.reply(ctx, msg.Chat.ID, "❌ Channel not found.")
	case err != nil:
		slog.Error("Failed to remove channel", "channel", args, "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Failed to remove channel.")
	default:
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ Channel %s removed.", channel.Name))
	}
}

func (h *Handler) handleChannels(ctx context.Context, msg *models.Message, _ string) {
	channels, err := h.Channels.List(ctx)
	if err != nil {
		slog.Error("Failed to list channels", "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Failed to list channels.")
		return
	}
	if len(channels) == 0 {
		h.reply(ctx, msg.Chat.ID, "📭 No required channels.\nUse /add_channel to add one.")
		return
	}

	var text strings.Builder
	text.WriteString("📋 Required channels:\n\n")
	for i, c := range channels {
		fmt.Fprintf(&text, "%d. %s\n   %s\n   ID: %d\n", i+1, c.Name, c.InviteLink, c.ID)
	}
	h.reply(ctx, msg.Chat.ID, text.String())
}

func (h *Handler) handleChannelID(ctx context.Context, msg *models.Message, _ string) {
	if err := h.Conversations.Begin(ctx, msg.From.ID, conversationDomain.StateAwaitingForward); err != nil {
		slog.Error("Failed to start channel id flow", "admin_id", msg.From.ID, "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Something went wrong.")
		return
	}
	h.reply(ctx, msg.Chat.ID, "Forward any message from the channel.")
}

func (h *Handler) handleCancel(ctx context.Context, msg *models.Message, _ string) {
	if err := h.Conversations.Reset(ctx, msg.From.ID); err != nil && !errors.Is(err, sharedErrors.ErrSessionNotFound) {
		slog.Error("Failed to reset session", "admin_id", msg.From.ID, "error", err)
	}
	h.reply(ctx, msg.Chat.ID, "Cancelled.")
}

func (h *Handler) handleStatus(ctx context.Context, msg *models.Message, _ string) {
	users, banned, err := h.Users.Stats(ctx)
	if err != nil {
		slog.Error("Failed to load user stats", "error", err)
	}
	filters, err := h.Filters.List(ctx)
	if err != nil {
		slog.Error("Failed to list filters", "error", err)
	}
	channels, err := h.Channels.List(ctx)
	if err != nil {
		slog.Error("Failed to list channels", "error", err)
	}
	events, err := h.Activity.Count(ctx)
	if err != nil {
		slog.Error("Failed to count activity events", "error", err)
	}
	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.reply(ctx, msg.Chat.ID, "❌ Failed to get status.")
		return
	}

	active := h.Filters.Active()
	if active == "" {
		active = "none"
	}

	text := fmt.Sprintf(`📊 Bot Status:

Users: %d (Banned: %d)
Filters: %d (Active: %s)
Required channels: %d
Forward protection: %t
Default auto-delete: %s
Events logged: %d
Storage: %s`,
		users, banned,
		len(filters), active,
		len(channels),
		settings.ProtectContent,
		filterDomain.FormatAutoDelete(settings.AutoDelete()),
		events,
		h.cfg.StorageDriver)

	h.reply(ctx, msg.Chat.ID, text)
}
