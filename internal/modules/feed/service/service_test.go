package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type filterList []*domain.Filter

func (l filterList) List(context.Context) ([]*domain.Filter, error) { return l, nil }

type brokenList struct{}

func (brokenList) List(context.Context) ([]*domain.Filter, error) {
	return nil, fmt.Errorf("storage down")
}

func TestFeedListsFiltersWithDeepLinks(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := New(filterList{
		{Keyword: "old", MessageIDs: []int{1}, CreatedAt: base, UpdatedAt: base},
		{Keyword: "empty", MessageIDs: []int{}, CreatedAt: base},
		{Keyword: "new", MessageIDs: []int{2, 3}, AutoDeleteSeconds: 1800, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
	})
	svc.SetBotUsername("share_bot")

	feed, err := svc.GenerateFeed(context.Background(), "http://localhost:8080")
	require.NoError(t, err)

	require.Len(t, feed.Items, 2)
	assert.Equal(t, "new", feed.Items[0].Id)
	assert.Equal(t, "https://t.me/share_bot?start=new", feed.Items[0].Link.Href)
	assert.Equal(t, "2 file(s), deleted after 30 minutes", feed.Items[0].Description)
	assert.Equal(t, "https://t.me/share_bot?start=old", feed.Items[1].Link.Href)
	assert.Equal(t, base.Add(time.Hour), feed.Updated)

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.Contains(t, rss, "https://t.me/share_bot?start=new")
}

func TestFeedListError(t *testing.T) {
	_, err := New(brokenList{}).GenerateFeed(context.Background(), "http://localhost")
	assert.Error(t, err)
}
