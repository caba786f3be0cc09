package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/channel/domain"
)

// Repository defines the interface for join-channel persistence
// This abstraction allows easy replacement of storage implementations
// (e.g., FileStorage -> MongoDB)
type Repository interface {
	SaveChannel(ctx context.Context, channel *domain.JoinChannel) error
	GetAllChannels(ctx context.Context) ([]*domain.JoinChannel, error)
	DeleteChannel(ctx context.Context, channelID int64) error
}
