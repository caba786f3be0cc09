package messenger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
)

func TestRetryAfter(t *testing.T) {
	wait, ok := RetryAfter(&bot.TooManyRequestsError{Message: "flood", RetryAfter: 12})
	assert.True(t, ok)
	assert.Equal(t, 12*time.Second, wait)

	wrapped := fmt.Errorf("copy: %w", &bot.TooManyRequestsError{RetryAfter: 3})
	wait, ok = RetryAfter(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, wait)

	_, ok = RetryAfter(fmt.Errorf("bad request"))
	assert.False(t, ok)
	_, ok = RetryAfter(nil)
	assert.False(t, ok)
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)

	assert.NoError(t, Sleep(context.Background(), 0))
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
}

func TestDeepLink(t *testing.T) {
	assert.Equal(t, "https://t.me/share_bot?start=demo", DeepLink("share_bot", "demo"))
}
