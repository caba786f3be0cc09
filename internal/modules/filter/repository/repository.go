package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
)

// Repository defines the interface for filter persistence.
// Lookups of a missing keyword return errors.ErrFilterNotFound.
type Repository interface {
	Save(ctx context.Context, filter *domain.Filter) error
	Get(ctx context.Context, keyword string) (*domain.Filter, error)
	GetByOrigin(ctx context.Context, originMessageID int) (*domain.Filter, error)
	GetAll(ctx context.Context) ([]*domain.Filter, error)
	AppendMessage(ctx context.Context, keyword string, messageID int) (*domain.Filter, error)
	Delete(ctx context.Context, keyword string) error
}
