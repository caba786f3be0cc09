package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/google/uuid"
	"github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/domain"
	"github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/repository"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Bot API accepts at most 100 ids per deleteMessages call.
const deleteBatchSize = 100

// Service schedules and runs auto-delete jobs.
type Service struct {
	repo     repository.Repository
	client   messenger.Client
	schedule string
	now      func() time.Time

	cron *cron.Cron
	// sweepMu keeps overlapping cron ticks from running the same job twice
	sweepMu sync.Mutex
}

// New creates a new cleanup service. schedule is a cron spec such as
// "@every 30s".
func New(repo repository.Repository, client messenger.Client, schedule string) *Service {
	return &Service{
		repo:     repo,
		client:   client,
		schedule: schedule,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Schedule persists a job deleting messageIDs from chatID after delay.
// A non-positive delay or an empty id list schedules nothing.
func (s *Service) Schedule(ctx context.Context, chatID int64, messageIDs []int, keyword string, delay time.Duration) (*domain.DeletionJob, error) {
	if delay <= 0 || len(messageIDs) == 0 {
		return nil, nil
	}

	now := s.now()
	job := &domain.DeletionJob{
		ID:         uuid.NewString(),
		ChatID:     chatID,
		MessageIDs: messageIDs,
		Keyword:    keyword,
		DueAt:      now.Add(delay),
		CreatedAt:  now,
	}
	if err := s.repo.Save(ctx, job); err != nil {
		return nil, oops.With("chat_id", chatID, "keyword", keyword, "context", "failed to schedule deletion").Wrap(err)
	}

	slog.Info("Deletion scheduled", "job_id", job.ID, "chat_id", chatID, "messages", len(messageIDs), "due_at", job.DueAt)
	return job, nil
}

// CancelChat drops every pending job of a chat, keeping its copies.
func (s *Service) CancelChat(ctx context.Context, chatID int64) (int, error) {
	n, err := s.repo.DeleteByChat(ctx, chatID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("Deletions cancelled", "chat_id", chatID, "jobs", n)
	}
	return n, nil
}

// Sweep runs every due job once and returns how many ran. Deletion failures
// (message already gone, permission revoked) are logged and swallowed.
func (s *Service) Sweep(ctx context.Context) int {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	jobs, err := s.repo.Due(ctx, s.now())
	if err != nil {
		slog.Error("Failed to load due deletion jobs", "error", err)
		return 0
	}

	for _, job := range jobs {
		for _, batch := range lo.Chunk(job.MessageIDs, deleteBatchSize) {
			if _, err := s.client.DeleteMessages(ctx, &bot.DeleteMessagesParams{
				ChatID:     job.ChatID,
				MessageIDs: batch,
			}); err != nil {
				slog.Debug("Auto-delete failed", "job_id", job.ID, "chat_id", job.ChatID, "error", err)
			}
		}
		if err := s.repo.Delete(ctx, job.ID); err != nil {
			slog.Error("Failed to drop finished deletion job", "job_id", job.ID, "error", err)
		}
	}
	return len(jobs)
}

// Start runs an initial sweep, picking up jobs left over from a previous
// process, and then sweeps on the configured schedule.
func (s *Service) Start(ctx context.Context) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, func() { s.Sweep(ctx) }); err != nil {
		return oops.With("schedule", s.schedule, "context", "invalid cleanup schedule").Wrap(err)
	}

	if n := s.Sweep(ctx); n > 0 {
		slog.Info("Ran overdue deletion jobs", "count", n)
	}

	s.cron.Start()
	slog.Info("Cleanup scheduler started", "schedule", s.schedule)
	return nil
}

// Stop halts the cron and waits for a running sweep.
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		slog.Warn("Cleanup scheduler stop timed out")
	}
}
