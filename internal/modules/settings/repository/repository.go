package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/settings/domain"
)

// Repository persists the settings singleton.
// Get returns domain.Default() when nothing was saved yet.
type Repository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) error
}
