package service

import (
	"context"
	"testing"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/settings/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := repository.NewFileStorage(dir)
	require.NoError(t, err)
	svc := New(repo)

	settings, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, settings.ProtectContent)
	assert.Zero(t, settings.AutoDelete())

	on, err := svc.ToggleProtectContent(ctx)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, svc.SetAutoDelete(ctx, 12*time.Hour))
	require.NoError(t, svc.SetActiveFilter(ctx, "demo"))

	// a fresh repository over the same directory sees the snapshot
	reopened, err := repository.NewFileStorage(dir)
	require.NoError(t, err)
	settings, err = New(reopened).Get(ctx)
	require.NoError(t, err)
	assert.True(t, settings.ProtectContent)
	assert.Equal(t, 12*time.Hour, settings.AutoDelete())
	assert.Equal(t, "demo", settings.ActiveFilter)

	off, err := svc.ToggleProtectContent(ctx)
	require.NoError(t, err)
	assert.False(t, off)

	active, err := svc.ActiveFilter(ctx)
	require.NoError(t, err)
	assert.Equal(t, "demo", active)
}
