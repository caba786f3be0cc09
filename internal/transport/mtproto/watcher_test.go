package mtproto

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gotd/td/session"
	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deleter struct {
	calls [][]int
}

func (d *deleter) DeleteByOrigin(_ context.Context, ids ...int) ([]string, error) {
	d.calls = append(d.calls, ids)
	return []string{"demo"}, nil
}

func TestChannelIDConversion(t *testing.T) {
	assert.Equal(t, int64(1234567890), MTProtoChannelID(-1001234567890))
	assert.Equal(t, int64(-1001234567890), BotAPIChannelID(1234567890))
	assert.Equal(t, int64(-1009), BotAPIChannelID(MTProtoChannelID(-1009)))
}

func TestDeletionsOfSourceChannelOnly(t *testing.T) {
	filters := &deleter{}
	w := &Watcher{channelID: MTProtoChannelID(-1001234567890), filters: filters}

	ctx := context.Background()
	require.NoError(t, w.onDeleteChannelMessages(ctx, tg.Entities{}, &tg.UpdateDeleteChannelMessages{
		ChannelID: 999,
		Messages:  []int{1},
	}))
	assert.Empty(t, filters.calls)

	require.NoError(t, w.onDeleteChannelMessages(ctx, tg.Entities{}, &tg.UpdateDeleteChannelMessages{
		ChannelID: 1234567890,
		Messages:  []int{10, 11},
	}))
	assert.Equal(t, [][]int{{10, 11}}, filters.calls)
}

func TestSessionDirIsCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "mtproto.session")
	w := New(1, "hash", "token", path, -1001234567890, &deleter{})

	require.NoError(t, w.ensureSessionDir())

	storage := &session.FileStorage{Path: path}
	require.NoError(t, storage.StoreSession(context.Background(), []byte(`{"Version":1}`)))
	data, err := storage.LoadSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
