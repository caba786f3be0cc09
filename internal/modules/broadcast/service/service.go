package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger"
	"github.com/samber/oops"
)

// RecipientSource lists the users a broadcast goes to.
type RecipientSource interface {
	Recipients(ctx context.Context) ([]int64, error)
}

// Report is the outcome of one broadcast.
type Report struct {
	Total  int
	Sent   int
	Failed int
}

func (r Report) String() string {
	return fmt.Sprintf("📢 Broadcast finished\nTotal: %d\nSent: %d\nFailed: %d", r.Total, r.Sent, r.Failed)
}

// Service copies one message to every registered, non-banned user.
type Service struct {
	client     messenger.Client
	recipients RecipientSource
	delay      time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// New creates a new broadcast service
func New(client messenger.Client, recipients RecipientSource, delay time.Duration) *Service {
	return &Service{
		client:     client,
		recipients: recipients,
		delay:      delay,
		sleep:      messenger.Sleep,
	}
}

// SetSleep replaces the pause used between sends.
func (s *Service) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	s.sleep = sleep
}

// Run copies message messageID of fromChatID to each recipient, one attempt
// per recipient. Failures are counted and never abort the run.
func (s *Service) Run(ctx context.Context, fromChatID int64, messageID int) (Report, error) {
	ids, err := s.recipients.Recipients(ctx)
	if err != nil {
		return Report{}, oops.With("context", "failed to load broadcast recipients").Wrap(err)
	}

	report := Report{Total: len(ids)}
	for i, userID := range ids {
		if i > 0 {
			if err := s.sleep(ctx, s.delay); err != nil {
				return report, err
			}
		}

		_, err := s.client.CopyMessage(ctx, &bot.CopyMessageParams{
			ChatID:     userID,
			FromChatID: fromChatID,
			MessageID:  messageID,
		})
		if err != nil {
			report.Failed++
			slog.Debug("Broadcast send failed", "user_id", userID, "error", err)
			continue
		}
		report.Sent++
	}

	slog.Info("Broadcast finished", "total", report.Total, "sent", report.Sent, "failed", report.Failed)
	return report, nil
}
