package repository

import (
	"context"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/domain"
)

// Repository persists pending deletion jobs.
type Repository interface {
	Save(ctx context.Context, job *domain.DeletionJob) error
	// Due returns the jobs with DueAt at or before now, oldest first.
	Due(ctx context.Context, now time.Time) ([]*domain.DeletionJob, error)
	Delete(ctx context.Context, id string) error
	DeleteByChat(ctx context.Context, chatID int64) (int, error)
}
