package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger"
)

// Result describes one finished delivery.
type Result struct {
	Keyword string
	// SentIDs are the ids of the copies in the recipient's chat, in order.
	SentIDs []int
	Failed  int
}

// Service copies filter messages from the source channel to users.
type Service struct {
	client          messenger.Client
	sourceChannelID int64
	delay           time.Duration
	sleep           func(ctx context.Context, d time.Duration) error
}

// New creates a new delivery service
func New(client messenger.Client, sourceChannelID int64, delay time.Duration) *Service {
	return &Service{
		client:          client,
		sourceChannelID: sourceChannelID,
		delay:           delay,
		sleep:           messenger.Sleep,
	}
}

// SetSleep replaces the pause used between copies and on flood waits.
func (s *Service) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	s.sleep = sleep
}

// Deliver copies every message of the filter to userID in stored order and
// finishes with a completion notice. A rate-limited copy is retried once
// after the signalled wait; any other failure skips the item.
func (s *Service) Deliver(ctx context.Context, userID int64, filter *domain.Filter, protect bool) (*Result, error) {
	result := &Result{Keyword: filter.Keyword}

	for i, messageID := range filter.MessageIDs {
		if i > 0 {
			if err := s.sleep(ctx, s.delay); err != nil {
				return result, err
			}
		}

		copied, err := s.copy(ctx, userID, messageID, protect)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed++
			slog.Warn("Failed to deliver message",
				"user_id", userID,
				"keyword", filter.Keyword,
				"message_id", messageID,
				"error", err)
			continue
		}
		result.SentIDs = append(result.SentIDs, copied)
	}

	if _, err := s.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   completionNotice(result),
	}); err != nil {
		slog.Warn("Failed to send completion notice", "user_id", userID, "error", err)
	}

	slog.Info("Filter delivered",
		"user_id", userID,
		"keyword", filter.Keyword,
		"sent", len(result.SentIDs),
		"failed", result.Failed)
	return result, nil
}

func (s *Service) copy(ctx context.Context, userID int64, messageID int, protect bool) (int, error) {
	params := &bot.CopyMessageParams{
		ChatID:         userID,
		FromChatID:     s.sourceChannelID,
		MessageID:      messageID,
		ProtectContent: protect,
	}

	copied, err := s.client.CopyMessage(ctx, params)
	if wait, limited := messenger.RetryAfter(err); limited {
		slog.Info("Rate limited, retrying", "user_id", userID, "message_id", messageID, "retry_after", wait)
		if err := s.sleep(ctx, wait); err != nil {
			return 0, err
		}
		copied, err = s.client.CopyMessage(ctx, params)
	}
	if err != nil {
		return 0, err
	}
	return copied.ID, nil
}

func completionNotice(result *Result) string {
	if result.Failed > 0 {
		return fmt.Sprintf("✅ Sent %d file(s) for %s, %d could not be delivered.", len(result.SentIDs), result.Keyword, result.Failed)
	}
	return fmt.Sprintf("✅ Sent %d file(s) for %s.", len(result.SentIDs), result.Keyword)
}
