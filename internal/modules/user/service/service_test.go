package service

import (
	"context"
	"testing"

	"github.com/reshetovitsme/file-share-bot/internal/modules/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return New(repo)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Register(ctx, 1, "alice", "Alice")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Register(ctx, 1, "alice2", "Alice")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestBanSurvivesRegister(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	// banning an id that never pressed /start still sticks
	require.NoError(t, svc.Ban(ctx, 7))
	assert.True(t, svc.IsBanned(ctx, 7))

	_, err := svc.Register(ctx, 7, "mallory", "Mallory")
	require.NoError(t, err)
	assert.True(t, svc.IsBanned(ctx, 7))

	require.NoError(t, svc.Unban(ctx, 7))
	assert.False(t, svc.IsBanned(ctx, 7))
}

func TestRecipientsSkipBanned(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, id := range []int64{1, 2, 3} {
		_, err := svc.Register(ctx, id, "", "")
		require.NoError(t, err)
	}
	require.NoError(t, svc.Ban(ctx, 2))

	ids, err := svc.Recipients(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, ids)

	total, banned, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, banned)
}

func TestIsBannedUnknownUser(t *testing.T) {
	assert.False(t, newService(t).IsBanned(context.Background(), 404))
}
