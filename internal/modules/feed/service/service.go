package service

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FilterLister lists the filters to publish.
type FilterLister interface {
	List(ctx context.Context) ([]*domain.Filter, error)
}

// Service builds the RSS catalog of filters
type Service struct {
	filters     FilterLister
	botUsername string
}

// New creates a new feed service
func New(filters FilterLister) *Service {
	return &Service{filters: filters}
}

// SetBotUsername sets the username used in deep links.
func (s *Service) SetBotUsername(username string) {
	s.botUsername = username
}

// GenerateFeed lists every non-empty filter with its deep link, newest first.
func (s *Service) GenerateFeed(ctx context.Context, baseURL string) (*feeds.Feed, error) {
	filters, err := s.filters.List(ctx)
	if err != nil {
		return nil, oops.With("context", "failed to list filters").Wrap(err)
	}
	filters = lo.Reject(filters, func(f *domain.Filter, _ int) bool { return f.IsEmpty() })

	feed := &feeds.Feed{
		Title:       "File share catalog",
		Link:        &feeds.Link{Href: baseURL + "/feed.rss"},
		Description: "Files shared by @" + s.botUsername,
		Author:      &feeds.Author{Name: s.botUsername},
		Created:     time.Now(),
	}

	items := make([]*feeds.Item, 0, len(filters))
	for _, f := range filters {
		items = append(items, s.filterToFeedItem(f))
		if f.UpdatedAt.After(feed.Updated) {
			feed.Updated = f.UpdatedAt
		}
	}
	feed.Items = items
	feed.Sort(func(a, b *feeds.Item) bool {
		return a.Created.After(b.Created)
	})
	return feed, nil
}

func (s *Service) filterToFeedItem(f *domain.Filter) *feeds.Item {
	link := messenger.DeepLink(s.botUsername, f.Keyword)

	description := fmt.Sprintf("%d file(s)", len(f.MessageIDs))
	if f.AutoDeleteSeconds > 0 {
		description += ", deleted after " + domain.FormatAutoDelete(f.AutoDelete())
	}

	return &feeds.Item{
		Title:       "#" + f.Keyword,
		Link:        &feeds.Link{Href: link},
		Description: description,
		Content:     fmt.Sprintf(`<p>%s</p><p><a href="%s">%s</a></p>`, html.EscapeString(description), html.EscapeString(link), html.EscapeString(link)),
		Created:     f.CreatedAt,
		Updated:     f.UpdatedAt,
		Id:          f.Keyword,
	}
}
