package telegram

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	activityRepo "github.com/reshetovitsme/file-share-bot/internal/modules/activity/repository"
	activityService "github.com/reshetovitsme/file-share-bot/internal/modules/activity/service"
	broadcastService "github.com/reshetovitsme/file-share-bot/internal/modules/broadcast/service"
	channelDomain "github.com/reshetovitsme/file-share-bot/internal/modules/channel/domain"
	channelRepo "github.com/reshetovitsme/file-share-bot/internal/modules/channel/repository"
	channelService "github.com/reshetovitsme/file-share-bot/internal/modules/channel/service"
	cleanupRepo "github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/repository"
	cleanupService "github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/service"
	conversationRepo "github.com/reshetovitsme/file-share-bot/internal/modules/conversation/repository"
	conversationService "github.com/reshetovitsme/file-share-bot/internal/modules/conversation/service"
	deliveryService "github.com/reshetovitsme/file-share-bot/internal/modules/delivery/service"
	filterDomain "github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	filterRepo "github.com/reshetovitsme/file-share-bot/internal/modules/filter/repository"
	filterService "github.com/reshetovitsme/file-share-bot/internal/modules/filter/service"
	settingsRepo "github.com/reshetovitsme/file-share-bot/internal/modules/settings/repository"
	settingsService "github.com/reshetovitsme/file-share-bot/internal/modules/settings/service"
	userRepo "github.com/reshetovitsme/file-share-bot/internal/modules/user/repository"
	userService "github.com/reshetovitsme/file-share-bot/internal/modules/user/service"
	"github.com/reshetovitsme/file-share-bot/internal/shared/config"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger/messengertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	adminID  = int64(1)
	userID   = int64(77)
	sourceID = int64(-100)
	logID    = int64(-500)
)

func newHandler(t *testing.T, logChannelID int64) (*Handler, *messengertest.Mock) {
	t.Helper()
	dir := t.TempDir()
	client := &messengertest.Mock{}
	client.Test(t)

	cfg := &config.Config{
		AdminIDs:        []int64{adminID},
		SourceChannelID: sourceID,
		LogChannelID:    logChannelID,
		StorageDriver:   config.StorageDriverFile,
	}

	filters, err := filterRepo.NewFileStorage(dir)
	require.NoError(t, err)
	settingsStore, err := settingsRepo.NewFileStorage(dir)
	require.NoError(t, err)
	users, err := userRepo.NewFileStorage(dir)
	require.NoError(t, err)
	channels, err := channelRepo.NewFileStorage(dir)
	require.NoError(t, err)
	sessions, err := conversationRepo.NewFileStorage(dir)
	require.NoError(t, err)
	jobs, err := cleanupRepo.NewFileStorage(dir)
	require.NoError(t, err)
	activityLog, err := activityRepo.NewFileStorage(dir)
	require.NoError(t, err)

	settings := settingsService.New(settingsStore)
	userSvc := userService.New(users)
	channelSvc := channelService.New(channels, client)

	h := New(cfg, client, Services{
		Filters:       filterService.New(filters, settings),
		Users:         userSvc,
		Channels:      channelSvc,
		Settings:      settings,
		Conversations: conversationService.New(sessions, channelSvc),
		Delivery:      deliveryService.New(client, sourceID, 0),
		Cleanup:       cleanupService.New(jobs, client, "@every 30s"),
		Broadcast:     broadcastService.New(client, userSvc, 0),
		Activity:      activityService.New(activityLog, client, logChannelID),
	})
	h.SetBotUsername("share_bot")
	return h, client
}

func private(from int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   1,
		From: &models.User{ID: from, FirstName: "Test"},
		Chat: models.Chat{ID: from, Type: models.ChatTypePrivate},
		Text: text,
	}}
}

func post(id int, text string) *models.Message {
	return &models.Message{ID: id, Chat: models.Chat{ID: sourceID, Type: models.ChatTypeChannel}, Text: text}
}

func photo(id int) *models.Message {
	msg := post(id, "")
	msg.Photo = []models.PhotoSize{{FileID: "photo"}}
	return msg
}

func textTo(chatID int64, fragment string) any {
	return mock.MatchedBy(func(p *bot.SendMessageParams) bool {
		return p.ChatID == chatID && strings.Contains(p.Text, fragment)
	})
}

func copyTo(chatID int64, messageID int) any {
	return mock.MatchedBy(func(p *bot.CopyMessageParams) bool {
		return p.ChatID == chatID && p.FromChatID == sourceID && p.MessageID == messageID
	})
}

func seedDemo(t *testing.T, h *Handler) {
	t.Helper()
	ctx := context.Background()
	h.processChannelPost(ctx, post(10, "#demo"))
	h.processChannelPost(ctx, photo(11))
}

func TestDemoScenario(t *testing.T) {
	ctx := context.Background()
	h, client := newHandler(t, 0)

	seedDemo(t, h)
	assert.Equal(t, "demo", h.Filters.Active())

	client.On("CopyMessage", copyTo(userID, 11)).Return(&models.MessageID{ID: 900}, nil).Once()
	client.On("SendMessage", textTo(userID, "Sent 1 file(s)")).Return(&models.Message{}, nil).Once()

	h.HandleUpdate(ctx, nil, private(userID, "/start demo"))
	client.AssertExpectations(t)

	total, _, err := h.Users.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// filter created, start, new user, filter accessed
	events, err := h.Activity.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), events)
}

func TestBannedUserOnlyGetsNotice(t *testing.T) {
	ctx := context.Background()
	h, client := newHandler(t, logID)

	client.On("SendMessage", textTo(logID, "Filter demo created")).Return(&models.Message{}, nil).Once()
	seedDemo(t, h)
	require.NoError(t, h.Users.Ban(ctx, userID))

	client.On("SendMessage", textTo(userID, "banned")).Return(&models.Message{}, nil).Once()

	h.HandleUpdate(ctx, nil, private(userID, "/start demo"))
	client.AssertExpectations(t)
	// the ban notice is the only message besides the filter creation entry
	client.AssertNumberOfCalls(t, "SendMessage", 2)
	client.AssertNotCalled(t, "CopyMessage", mock.Anything)

	// only the filter creation reached the event log
	events, err := h.Activity.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), events)
	client.AssertNotCalled(t, "GetChatMember", mock.Anything)
}

func TestGateThenRetryDelivers(t *testing.T) {
	ctx := context.Background()
	h, client := newHandler(t, 0)

	seedDemo(t, h)
	_, err := h.Channels.Add(ctx, "News", "https://t.me/news", -1001)
	require.NoError(t, err)

	member := mock.MatchedBy(func(p *bot.GetChatMemberParams) bool {
		return p.ChatID == int64(-1001) && p.UserID == userID
	})
	client.On("GetChatMember", member).Return(&models.ChatMember{Type: models.ChatMemberTypeLeft}, nil).Once()
	client.On("SendMessage", mock.MatchedBy(func(p *bot.SendMessageParams) bool {
		markup, ok := p.ReplyMarkup.(*models.InlineKeyboardMarkup)
		if !ok || len(markup.InlineKeyboard) != 2 {
			return false
		}
		return markup.InlineKeyboard[0][0].URL == "https://t.me/news" &&
			markup.InlineKeyboard[1][0].CallbackData == "retry:demo"
	})).Return(&models.Message{}, nil).Once()

	h.HandleUpdate(ctx, nil, private(userID, "/start demo"))
	client.AssertNotCalled(t, "CopyMessage", mock.Anything)

	client.On("GetChatMember", member).Return(&models.ChatMember{Type: models.ChatMemberTypeMember}, nil).Once()
	client.On("AnswerCallbackQuery", mock.Anything).Return(true, nil).Once()
	client.On("CopyMessage", copyTo(userID, 11)).Return(&models.MessageID{ID: 901}, nil).Once()
	client.On("SendMessage", textTo(userID, "Sent 1 file(s)")).Return(&models.Message{}, nil).Once()

	h.HandleUpdate(ctx, nil, &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb",
		From: models.User{ID: userID},
		Data: "retry:demo",
	}})
	client.AssertExpectations(t)
}

func TestDeletedFilterIsNotFound(t *testing.T) {
	ctx := context.Background()
	h, client := newHandler(t, 0)

	seedDemo(t, h)

	client.On("SendMessage", textTo(adminID, "Filter deleted")).Return(&models.Message{}, nil).Once()
	h.HandleUpdate(ctx, nil, private(adminID, "/delete demo"))
	assert.Empty(t, h.Filters.Active())

	client.On("SendMessage", textTo(userID, "Filter not found")).Return(&models.Message{}, nil).Once()
	h.HandleUpdate(ctx, nil, private(userID, "/start demo"))
	client.AssertExpectations(t)
}

func TestOriginDeletionRemovesFilter(t *testing.T) {
	ctx := context.Background()
	h, client := newHandler(t, 0)

	seedDemo(t, h)
	deleted, err := h.Filters.DeleteByOrigin(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo"}, deleted)

	client.On("SendMessage", textTo(userID, "Filter not found")).Return(&models.Message{}, nil).Once()
	h.HandleUpdate(ctx, nil, private(userID, "/start demo"))
	client.AssertExpectations(t)
}

func TestReplyTargetsKeywordPost(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandler(t, 0)

	h.processChannelPost(ctx, post(10, "#first"))
	h.processChannelPost(ctx, post(20, "#second"))

	media := photo(21)
	media.ReplyToMessage = post(10, "#first")
	h.processChannelPost(ctx, media)
	h.processChannelPost(ctx, photo(22))

	first, err := h.Filters.Resolve(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, []int{21}, first.MessageIDs)

	second, err := h.Filters.Resolve(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, []int{22}, second.MessageIDs)
}

func TestMediaWithoutFilterIsIgnored(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandler(t, 0)

	h.processChannelPost(ctx, photo(5))
	h.processChannelPost(ctx, post(6, "just some words"))

	filters, err := h.Filters.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, filters)
}

func TestAdminCommandsRequireAdmin(t *testing.T) {
	h, client := newHandler(t, 0)

	client.On("SendMessage", textTo(userID, "Only admin!")).Return(&models.Message{}, nil).Once()
	h.HandleUpdate(context.Background(), nil, private(userID, "/ban 5"))
	client.AssertExpectations(t)
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	h, client := newHandler(t, 0)

	h.HandleUpdate(context.Background(), nil, private(userID, "/frobnicate"))
	client.AssertNotCalled(t, "SendMessage", mock.Anything)
}

func TestAutoDeleteIsScheduledAfterDelivery(t *testing.T) {
	ctx := context.Background()
	h, client := newHandler(t, 0)

	seedDemo(t, h)

	client.On("SendMessage", textTo(adminID, "Auto-delete for #demo: 30 minutes")).Return(&models.Message{}, nil).Once()
	h.HandleUpdate(ctx, nil, private(adminID, "/auto_delete demo 30m"))

	client.On("CopyMessage", copyTo(userID, 11)).Return(&models.MessageID{ID: 900}, nil).Once()
	client.On("SendMessage", textTo(userID, "Sent 1 file(s)")).Return(&models.Message{}, nil).Once()
	client.On("SendMessage", textTo(userID, "deleted in 30 minutes")).Return(&models.Message{}, nil).Once()

	h.HandleUpdate(ctx, nil, private(userID, "/start demo"))
	client.AssertExpectations(t)
}

func TestKeepCancelsPendingDeletions(t *testing.T) {
	ctx := context.Background()
	h, client := newHandler(t, 0)

	seedDemo(t, h)

	client.On("SendMessage", textTo(adminID, "Auto-delete for #demo: 30 minutes")).Return(&models.Message{}, nil).Once()
	h.HandleUpdate(ctx, nil, private(adminID, "/auto_delete demo 30m"))

	client.On("CopyMessage", copyTo(userID, 11)).Return(&models.MessageID{ID: 900}, nil).Once()
	client.On("SendMessage", textTo(userID, "Sent 1 file(s)")).Return(&models.Message{}, nil).Once()
	client.On("SendMessage", textTo(userID, "deleted in 30 minutes")).Return(&models.Message{}, nil).Once()
	h.HandleUpdate(ctx, nil, private(userID, "/start demo"))

	client.On("SendMessage", textTo(adminID, "Cancelled 1 pending auto-delete(s) for user 77")).Return(&models.Message{}, nil).Once()
	h.HandleUpdate(ctx, nil, private(adminID, "/keep 77"))

	h.Cleanup.SetClock(func() time.Time { return time.Now().Add(time.Hour) })
	assert.Zero(t, h.Cleanup.Sweep(ctx))
	client.AssertNotCalled(t, "DeleteMessages", mock.Anything)
	client.AssertExpectations(t)
}

func TestBroadcastReportsToAdmin(t *testing.T) {
	ctx := context.Background()
	h, client := newHandler(t, 0)

	for _, id := range []int64{10, 11} {
		_, err := h.Users.Register(ctx, id, "", "")
		require.NoError(t, err)
	}

	update := private(adminID, "/broadcast")
	update.Message.ReplyToMessage = &models.Message{ID: 42}

	client.On("SendMessage", textTo(adminID, "Broadcast started")).Return(&models.Message{}, nil).Once()
	client.On("CopyMessage", mock.MatchedBy(func(p *bot.CopyMessageParams) bool {
		return p.FromChatID == adminID && p.MessageID == 42
	})).Return(&models.MessageID{ID: 1}, nil).Twice()
	client.On("SendMessage", textTo(adminID, "Sent: 2")).Return(&models.Message{}, nil).Once()

	h.HandleUpdate(ctx, nil, update)
	h.Wait()
	client.AssertExpectations(t)
}

func TestAddChannelConversation(t *testing.T) {
	ctx := context.Background()
	h, client := newHandler(t, 0)

	client.On("SendMessage", textTo(adminID, "channel name")).Return(&models.Message{}, nil).Once()
	client.On("SendMessage", textTo(adminID, "invite link")).Return(&models.Message{}, nil).Once()
	client.On("SendMessage", textTo(adminID, "numeric channel id")).Return(&models.Message{}, nil).Once()
	client.On("SendMessage", textTo(adminID, "Channel News added")).Return(&models.Message{}, nil).Once()

	for _, text := range []string{"/add_channel", "News", "https://t.me/news", "-1001"} {
		h.HandleUpdate(ctx, nil, private(adminID, text))
	}
	client.AssertExpectations(t)

	channels, err := h.Channels.List(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, int64(-1001), channels[0].ID)
}

func TestChannelPostsFromOtherChatsAreDropped(t *testing.T) {
	h, _ := newHandler(t, 0)

	other := post(1, "#demo")
	other.Chat.ID = -999
	h.HandleUpdate(context.Background(), nil, &models.Update{ChannelPost: other})
	assert.Empty(t, h.posts)

	h.HandleUpdate(context.Background(), nil, &models.Update{ChannelPost: post(2, "#demo")})
	assert.Len(t, h.posts, 1)
}

func TestParseCommand(t *testing.T) {
	name, args, ok := parseCommand("/start@share_bot demo")
	assert.True(t, ok)
	assert.Equal(t, "start", name)
	assert.Equal(t, "demo", args)

	name, args, ok = parseCommand("/Filters")
	assert.True(t, ok)
	assert.Equal(t, "filters", name)
	assert.Empty(t, args)

	_, _, ok = parseCommand("hello")
	assert.False(t, ok)
	_, _, ok = parseCommand("/")
	assert.False(t, ok)
}

func TestForwardedChannel(t *testing.T) {
	msg := &models.Message{ForwardOrigin: &models.MessageOrigin{
		Type: models.MessageOriginTypeChannel,
		MessageOriginChannel: &models.MessageOriginChannel{
			Chat: models.Chat{ID: -100777, Title: "Store", Type: models.ChatTypeChannel},
		},
	}}
	id, title := forwardedChannel(msg)
	assert.Equal(t, int64(-100777), id)
	assert.Equal(t, "Store", title)

	id, _ = forwardedChannel(&models.Message{})
	assert.Zero(t, id)
}

func TestJoinPromptFitsCallbackLimit(t *testing.T) {
	keyword, err := filterDomain.NormalizeKeyword(strings.Repeat("k", filterDomain.MaxKeywordLength))
	require.NoError(t, err)

	markup := joinPrompt([]*channelDomain.JoinChannel{{Name: "Main", InviteLink: "https://t.me/main"}}, keyword)
	require.Len(t, markup.InlineKeyboard, 2)
	data := markup.InlineKeyboard[1][0].CallbackData
	assert.Equal(t, retryPrefix+keyword, data)
	assert.LessOrEqual(t, len(data), 64)
}
