package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/feed/service"
	"github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type filters []*domain.Filter

func (f filters) List(context.Context) ([]*domain.Filter, error) { return f, nil }

func newServer(feedToken string, ping error) http.Handler {
	feed := service.New(filters{{Keyword: "demo", MessageIDs: []int{1}, CreatedAt: time.Now()}})
	feed.SetBotUsername("share_bot")
	return New(&config.Config{FeedToken: feedToken}, feed, pinger{err: ping}).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestStatusEndpoints(t *testing.T) {
	h := newServer("", nil)

	for _, path := range []string{"/", "/ping"} {
		rec := get(t, h, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var body statusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "Bot is running!", body.Message)
		assert.False(t, body.Time.IsZero())
	}

	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)
}

func TestHealth(t *testing.T) {
	rec := get(t, newServer("", nil), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"up"`)

	rec = get(t, newServer("", fmt.Errorf("connection refused")), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"down"`)
}

func TestFeedRequiresToken(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(t, newServer("", nil), "/feed.rss").Code)

	h := newServer("s3cret", nil)
	assert.Equal(t, http.StatusForbidden, get(t, h, "/feed.rss").Code)
	assert.Equal(t, http.StatusForbidden, get(t, h, "/feed.rss?token=wrong").Code)

	rec := get(t, h, "/feed.rss?token=s3cret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "https://t.me/share_bot?start=demo")
}
