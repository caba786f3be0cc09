package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/conversation/domain"
)

// Repository persists admin sessions keyed by admin id.
type Repository interface {
	Get(ctx context.Context, adminID int64) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, adminID int64) error
}
