package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/activity/domain"
)

// Repository persists the activity log.
type Repository interface {
	Save(ctx context.Context, event *domain.Event) error
	Count(ctx context.Context) (int64, error)
}
