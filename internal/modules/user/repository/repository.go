package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/user/domain"
)

// Repository defines the interface for user data persistence
type Repository interface {
	SaveUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	// SetBanned upserts the ban flag, creating a bare record for unknown ids.
	SetBanned(ctx context.Context, userID int64, banned bool) error
}
