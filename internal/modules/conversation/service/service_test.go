package service

import (
	"context"
	"testing"

	channelRepo "github.com/reshetovitsme/file-share-bot/internal/modules/channel/repository"
	channelService "github.com/reshetovitsme/file-share-bot/internal/modules/channel/service"
	"github.com/reshetovitsme/file-share-bot/internal/modules/conversation/domain"
	"github.com/reshetovitsme/file-share-bot/internal/modules/conversation/repository"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger/messengertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const admin = int64(42)

func newService(t *testing.T) (*Service, *channelService.Service) {
	t.Helper()
	dir := t.TempDir()
	sessions, err := repository.NewFileStorage(dir)
	require.NoError(t, err)
	channels, err := channelRepo.NewFileStorage(dir)
	require.NoError(t, err)
	chSvc := channelService.New(channels, &messengertest.Mock{})
	return New(sessions, chSvc), chSvc
}

func requireState(t *testing.T, svc *Service, want domain.State) {
	t.Helper()
	session, err := svc.Current(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, want, session.State)
}

func TestAddChannelFlow(t *testing.T) {
	ctx := context.Background()
	svc, channels := newService(t)

	require.NoError(t, svc.Begin(ctx, admin, domain.StateAwaitingChannelName))

	_, handled, err := svc.Handle(ctx, admin, Input{Text: "News"})
	require.NoError(t, err)
	assert.True(t, handled)
	requireState(t, svc, domain.StateAwaitingChannelLink)

	_, _, err = svc.Handle(ctx, admin, Input{Text: "https://t.me/news"})
	require.NoError(t, err)
	requireState(t, svc, domain.StateAwaitingChannelId)

	reply, _, err := svc.Handle(ctx, admin, Input{Text: "-1001234"})
	require.NoError(t, err)
	assert.Contains(t, reply, "added")
	requireState(t, svc, domain.StateIdle)

	list, err := channels.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "News", list[0].Name)
	assert.Equal(t, int64(-1001234), list[0].ID)
}

func TestBadLinkResetsSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.NoError(t, svc.Begin(ctx, admin, domain.StateAwaitingChannelName))
	_, _, err := svc.Handle(ctx, admin, Input{Text: "News"})
	require.NoError(t, err)

	reply, handled, err := svc.Handle(ctx, admin, Input{Text: "http://example.com"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, reply, "Invalid link")
	requireState(t, svc, domain.StateIdle)
}

func TestNonNumericIDResetsSession(t *testing.T) {
	ctx := context.Background()
	svc, channels := newService(t)

	require.NoError(t, svc.Begin(ctx, admin, domain.StateAwaitingChannelName))
	for _, text := range []string{"News", "https://t.me/news"} {
		_, _, err := svc.Handle(ctx, admin, Input{Text: text})
		require.NoError(t, err)
	}

	reply, _, err := svc.Handle(ctx, admin, Input{Text: "news-channel"})
	require.NoError(t, err)
	assert.Contains(t, reply, "must be a number")
	requireState(t, svc, domain.StateIdle)

	list, err := channels.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestChannelIDFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.NoError(t, svc.Begin(ctx, admin, domain.StateAwaitingForward))
	reply, handled, err := svc.Handle(ctx, admin, Input{ForwardedChatID: -100777, ForwardedChatTitle: "Store"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, reply, "-100777")
	requireState(t, svc, domain.StateIdle)

	require.NoError(t, svc.Begin(ctx, admin, domain.StateAwaitingForward))
	reply, _, err = svc.Handle(ctx, admin, Input{Text: "hello"})
	require.NoError(t, err)
	assert.Contains(t, reply, "not forwarded")
	requireState(t, svc, domain.StateIdle)
}

func TestIdleSessionIsNotHandled(t *testing.T) {
	svc, _ := newService(t)

	_, handled, err := svc.Handle(context.Background(), admin, Input{Text: "hi"})
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestBeginRejectsNonEntryState(t *testing.T) {
	svc, _ := newService(t)

	err := svc.Begin(context.Background(), admin, domain.StateAwaitingChannelId)
	assert.Error(t, err)
	requireState(t, svc, domain.StateIdle)
}
