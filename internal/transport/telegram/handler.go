package telegram

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	activityService "github.com/reshetovitsme/file-share-bot/internal/modules/activity/service"
	broadcastService "github.com/reshetovitsme/file-share-bot/internal/modules/broadcast/service"
	channelService "github.com/reshetovitsme/file-share-bot/internal/modules/channel/service"
	cleanupService "github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/service"
	conversationService "github.com/reshetovitsme/file-share-bot/internal/modules/conversation/service"
	deliveryService "github.com/reshetovitsme/file-share-bot/internal/modules/delivery/service"
	filterService "github.com/reshetovitsme/file-share-bot/internal/modules/filter/service"
	settingsService "github.com/reshetovitsme/file-share-bot/internal/modules/settings/service"
	userService "github.com/reshetovitsme/file-share-bot/internal/modules/user/service"
	"github.com/reshetovitsme/file-share-bot/internal/shared/config"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger"
)

const (
	retryPrefix     = "retry:"
	ingestQueueSize = 256

	textBanned    = "🚫 You are banned from using this bot."
	textOnlyAdmin = "Only admin!"
)

// Services groups the modules the handler drives.
type Services struct {
	Filters       *filterService.Service
	Users         *userService.Service
	Channels      *channelService.Service
	Settings      *settingsService.Service
	Conversations *conversationService.Service
	Delivery      *deliveryService.Service
	Cleanup       *cleanupService.Service
	Broadcast     *broadcastService.Service
	Activity      *activityService.Service
}

type command struct {
	adminOnly bool
	handle    func(ctx context.Context, msg *models.Message, args string)
}

// Handler handles Telegram bot interactions
type Handler struct {
	cfg    *config.Config
	client messenger.Client
	Services

	commands map[string]command
	posts    chan *models.Message

	botUsername string
	tasks       sync.WaitGroup
}

// New creates a new Telegram handler
func New(cfg *config.Config, client messenger.Client, services Services) *Handler {
	h := &Handler{
		cfg:      cfg,
		client:   client,
		Services: services,
		posts:    make(chan *models.Message, ingestQueueSize),
	}

	h.commands = map[string]command{
		"start":          {handle: h.handleStart},
		"help":           {handle: h.handleHelp},
		"ping":           {handle: h.handlePing},
		"broadcast":      {adminOnly: true, handle: h.handleBroadcast},
		"filters":        {adminOnly: true, handle: h.handleFilters},
		"delete":         {adminOnly: true, handle: h.handleDelete},
		"ban":            {adminOnly: true, handle: h.handleBan},
		"unban":          {adminOnly: true, handle: h.handleUnban},
		"keep":           {adminOnly: true, handle: h.handleKeep},
		"restrict":       {adminOnly: true, handle: h.handleRestrict},
		"auto_delete":    {adminOnly: true, handle: h.handleAutoDelete},
		"add_channel":    {adminOnly: true, handle: h.handleAddChannel},
		"delete_channel": {adminOnly: true, handle: h.handleDeleteChannel},
		"channels":       {adminOnly: true, handle: h.handleChannels},
		"channel_id":     {adminOnly: true, handle: h.handleChannelID},
		"cancel":         {adminOnly: true, handle: h.handleCancel},
		"status":         {adminOnly: true, handle: h.handleStatus},
	}
	return h
}

// SetBotUsername sets the username used in deep links.
func (h *Handler) SetBotUsername(username string) {
	h.botUsername = username
}

// RegisterCommands registers the retry callback and a catch-all route for
// everything else.
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, retryPrefix, bot.MatchTypePrefix, h.handleRetry)
	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.CallbackQuery == nil || !strings.HasPrefix(update.CallbackQuery.Data, retryPrefix)
	}, h.HandleUpdate)
}

// HandleUpdate routes one update to exactly one handler.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.ChannelPost != nil:
		h.enqueuePost(ctx, update.ChannelPost)
	case update.CallbackQuery != nil:
		if strings.HasPrefix(update.CallbackQuery.Data, retryPrefix) {
			h.handleRetry(ctx, b, update)
			return
		}
		h.answer(ctx, update.CallbackQuery.ID, "")
	case update.Message != nil && update.Message.Chat.Type == models.ChatTypePrivate:
		h.processPrivateMessage(ctx, update.Message)
	}
}

func (h *Handler) processPrivateMessage(ctx context.Context, msg *models.Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID
	isAdmin := h.cfg.IsAdmin(userID)

	if !isAdmin && h.Users.IsBanned(ctx, userID) {
		h.reply(ctx, msg.Chat.ID, textBanned)
		return
	}

	name, args, isCommand := parseCommand(msg.Text)
	if !isCommand {
		if isAdmin {
			h.continueConversation(ctx, msg)
		}
		return
	}

	cmd, ok := h.commands[name]
	if !ok {
		slog.Debug("Unknown command ignored", "command", name, "user_id", userID)
		return
	}
	if cmd.adminOnly && !isAdmin {
		h.reply(ctx, msg.Chat.ID, textOnlyAdmin)
		return
	}
	cmd.handle(ctx, msg, args)
}

func (h *Handler) continueConversation(ctx context.Context, msg *models.Message) {
	input := conversationService.Input{Text: msg.Text}
	input.ForwardedChatID, input.ForwardedChatTitle = forwardedChannel(msg)

	reply, handled, err := h.Conversations.Handle(ctx, msg.From.ID, input)
	if err != nil {
		slog.Error("Conversation step failed", "admin_id", msg.From.ID, "error", err)
		h.reply(ctx, msg.Chat.ID, "❌ Something went wrong, the current operation was cancelled.")
		_ = h.Conversations.Reset(ctx, msg.From.ID)
		return
	}
	if handled && reply != "" {
		h.reply(ctx, msg.Chat.ID, reply)
	}
}

// Wait blocks until detached tasks such as broadcasts finish.
func (h *Handler) Wait() {
	h.tasks.Wait()
}

func (h *Handler) detach(fn func()) {
	h.tasks.Add(1)
	go func() {
		defer h.tasks.Done()
		fn()
	}()
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	h.send(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

func (h *Handler) send(ctx context.Context, params *bot.SendMessageParams) {
	if _, err := h.client.SendMessage(ctx, params); err != nil {
		slog.Warn("Failed to send message", "chat_id", params.ChatID, "error", err)
	}
}

func (h *Handler) answer(ctx context.Context, callbackID, text string) {
	if _, err := h.client.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	}); err != nil {
		slog.Debug("Failed to answer callback", "error", err)
	}
}

// parseCommand splits "/cmd@bot args" into its name and argument string.
func parseCommand(text string) (name, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

// forwardedChannel returns the channel a message was forwarded from.
func forwardedChannel(msg *models.Message) (int64, string) {
	origin := msg.ForwardOrigin
	if origin == nil {
		return 0, ""
	}
	switch {
	case origin.MessageOriginChannel != nil:
		return origin.MessageOriginChannel.Chat.ID, origin.MessageOriginChannel.Chat.Title
	case origin.MessageOriginChat != nil && origin.MessageOriginChat.SenderChat.Type == models.ChatTypeChannel:
		return origin.MessageOriginChat.SenderChat.ID, origin.MessageOriginChat.SenderChat.Title
	}
	return 0, ""
}
