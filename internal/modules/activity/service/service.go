package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/google/uuid"
	"github.com/reshetovitsme/file-share-bot/internal/modules/activity/domain"
	"github.com/reshetovitsme/file-share-bot/internal/modules/activity/repository"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger"
)

// Service records activity in the event log and mirrors the notable entries
// to the log channel. With no log channel configured only the event log is
// written.
type Service struct {
	repo         repository.Repository
	client       messenger.Client
	logChannelID int64
	now          func() time.Time
}

// New creates a new activity service
func New(repo repository.Repository, client messenger.Client, logChannelID int64) *Service {
	return &Service{
		repo:         repo,
		client:       client,
		logChannelID: logChannelID,
		now:          time.Now,
	}
}

// Enabled reports whether a log channel is configured.
func (s *Service) Enabled() bool {
	return s.logChannelID != 0
}

// Started records a /start.
func (s *Service) Started(ctx context.Context, userID int64) {
	s.record(ctx, &domain.Event{
		Kind:   domain.KindStart,
		UserID: userID,
		Text:   fmt.Sprintf("/start by %d", userID),
	})
}

// NewUser records a first /start.
func (s *Service) NewUser(ctx context.Context, userID int64, username, firstName string) {
	s.record(ctx, &domain.Event{
		Kind:   domain.KindNewUser,
		UserID: userID,
		Text:   fmt.Sprintf("new user %d", userID),
	})

	text := fmt.Sprintf("🆕 New user\nID: %d\nName: %s", userID, firstName)
	if username != "" {
		text += "\nUsername: @" + username
	}
	s.post(ctx, text)
}

// FilterCreated records a new keyword post in the source channel.
func (s *Service) FilterCreated(ctx context.Context, keyword, link string) {
	s.record(ctx, &domain.Event{
		Kind:    domain.KindFilterCreated,
		Keyword: keyword,
		Text:    "filter " + keyword + " created",
	})
	s.post(ctx, fmt.Sprintf("📁 Filter %s created\n%s", keyword, link))
}

// FilterAccessed records a finished delivery.
func (s *Service) FilterAccessed(ctx context.Context, userID int64, keyword string, sent int) {
	text := fmt.Sprintf("User %d accessed filter %s (%d file(s))", userID, keyword, sent)
	s.record(ctx, &domain.Event{
		Kind:    domain.KindFilterAccessed,
		UserID:  userID,
		Keyword: keyword,
		Text:    text,
	})
	s.post(ctx, text)
}

// Count returns the number of recorded events.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) record(ctx context.Context, event *domain.Event) {
	event.ID = uuid.NewString()
	event.Time = s.now().UTC()
	if err := s.repo.Save(ctx, event); err != nil {
		slog.Warn("Failed to record activity", "kind", event.Kind, "error", err)
	}
}

func (s *Service) post(ctx context.Context, text string) {
	if !s.Enabled() {
		return
	}
	if _, err := s.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.logChannelID,
		Text:   text,
	}); err != nil {
		slog.Warn("Failed to post to log channel", "log_channel_id", s.logChannelID, "error", err)
	}
}
