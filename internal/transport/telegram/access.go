package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	channelDomain "github.com/reshetovitsme/file-share-bot/internal/modules/channel/domain"
	filterDomain "github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
)

const (
	textWelcome = `👋 Welcome to File Share Bot!

Open a file link to receive its files. Make sure you have joined the required channels, if any.`

	textAdminHelp = `🛡️ Admin Panel

Files
/filters - List filters and their links
/delete <keyword> - Delete a filter
/auto_delete [keyword] <30m|1h|12h|24h|off> - Auto-delete delay
/restrict - Toggle forward protection

Users
/broadcast - Reply to a message to send it to every user
/ban <user_id> - Ban a user
/unban <user_id> - Lift a ban
/keep <user_id> - Cancel a user's pending auto-deletes

Join channels
/add_channel - Add a required channel
/delete_channel <link-or-id> - Remove a required channel
/channels - List required channels
/channel_id - Look up a channel id from a forwarded message

/status - Bot status
/cancel - Cancel the current operation
/ping - Check the bot is alive

Post a single word (e.g. #movies) in the source channel to start a filter, then post its files.`

	textNotFound = "❌ Filter not found."
	textJoin     = "You must join the required channel(s) to access these files."
)

func (h *Handler) handleStart(ctx context.Context, msg *models.Message, args string) {
	from := msg.From
	created, err := h.Users.Register(ctx, from.ID, from.Username, from.FirstName)
	if err != nil {
		slog.Error("Failed to register user", "user_id", from.ID, "error", err)
	}
	h.Activity.Started(ctx, from.ID)
	if created {
		h.Activity.NewUser(ctx, from.ID, from.Username, from.FirstName)
	}

	if args == "" {
		h.handleHelp(ctx, msg, "")
		return
	}
	h.serve(ctx, msg.Chat.ID, from.ID, args)
}

func (h *Handler) handleHelp(ctx context.Context, msg *models.Message, _ string) {
	if h.cfg.IsAdmin(msg.From.ID) {
		h.reply(ctx, msg.Chat.ID, textAdminHelp)
		return
	}
	h.reply(ctx, msg.Chat.ID, textWelcome)
}

func (h *Handler) handlePing(ctx context.Context, msg *models.Message, _ string) {
	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("🏓 Pong!\nBot is running.\nServer Time (UTC): %s", time.Now().UTC().Format(time.RFC3339)))
}

func (h *Handler) handleRetry(ctx context.Context, _ *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	userID := query.From.ID

	if !h.cfg.IsAdmin(userID) && h.Users.IsBanned(ctx, userID) {
		h.answer(ctx, query.ID, textBanned)
		return
	}

	h.answer(ctx, query.ID, "")
	h.serve(ctx, userID, userID, strings.TrimPrefix(query.Data, retryPrefix))
}

// serve runs the access gate and delivers a filter to a user.
func (h *Handler) serve(ctx context.Context, chatID, userID int64, rawKeyword string) {
	filter, err := h.Filters.Resolve(ctx, rawKeyword)
	if err != nil {
		if !errors.Is(err, sharedErrors.ErrFilterNotFound) {
			slog.Error("Failed to look up filter", "keyword", rawKeyword, "error", err)
		}
		h.reply(ctx, chatID, textNotFound)
		return
	}

	missing, err := h.Channels.Missing(ctx, userID)
	if err != nil {
		slog.Error("Failed to check join channels", "user_id", userID, "error", err)
		h.reply(ctx, chatID, "❌ Could not verify channel membership, please try again later.")
		return
	}
	if len(missing) > 0 {
		h.send(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        textJoin,
			ReplyMarkup: joinPrompt(missing, filter.Keyword),
		})
		return
	}

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		h.reply(ctx, chatID, "❌ Something went wrong, please try again later.")
		return
	}

	result, err := h.Delivery.Deliver(ctx, chatID, filter, settings.ProtectContent)
	if err != nil {
		slog.Warn("Delivery interrupted", "user_id", userID, "keyword", filter.Keyword, "error", err)
		return
	}
	h.Activity.FilterAccessed(ctx, userID, filter.Keyword, len(result.SentIDs))

	delay := filter.AutoDelete()
	if delay == 0 {
		delay = settings.AutoDelete()
	}
	job, err := h.Cleanup.Schedule(ctx, chatID, result.SentIDs, filter.Keyword, delay)
	if err != nil {
		slog.Error("Failed to schedule auto-delete", "user_id", userID, "keyword", filter.Keyword, "error", err)
		return
	}
	if job != nil {
		h.reply(ctx, chatID, fmt.Sprintf("⏳ These files will be deleted in %s. Save them somewhere else.", filterDomain.FormatAutoDelete(delay)))
	}
}

func joinPrompt(missing []*channelDomain.JoinChannel, keyword string) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(missing)+1)
	for _, c := range missing {
		rows = append(rows, []models.InlineKeyboardButton{{Text: "Join " + c.Name, URL: c.InviteLink}})
	}
	rows = append(rows, []models.InlineKeyboardButton{{Text: "🔄 Try Again", CallbackData: retryPrefix + keyword}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
