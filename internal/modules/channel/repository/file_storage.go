package repository

import (
	"context"
	"strconv"

	"github.com/reshetovitsme/file-share-bot/internal/modules/channel/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
)

// FileStorage implements channel.Repository using file system
type FileStorage struct {
	channels *storage.FileCollection[domain.JoinChannel]
}

// NewFileStorage creates a new file-based channel repository
func NewFileStorage(basePath string) (Repository, error) {
	channels, err := storage.NewFileCollection[domain.JoinChannel](basePath, "channels")
	if err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create channels directory").Wrap(err)
	}

	return &FileStorage{channels: channels}, nil
}

func (s *FileStorage) SaveChannel(_ context.Context, channel *domain.JoinChannel) error {
	if err := s.channels.Save(strconv.FormatInt(channel.ID, 10), channel); err != nil {
		return oops.With("channel_id", channel.ID, "context", "failed to save channel").Wrap(err)
	}
	return nil
}

func (s *FileStorage) GetAllChannels(_ context.Context) ([]*domain.JoinChannel, error) {
	return s.channels.All()
}

func (s *FileStorage) DeleteChannel(_ context.Context, channelID int64) error {
	deleted, err := s.channels.Delete(strconv.FormatInt(channelID, 10))
	if err != nil {
		return oops.With("channel_id", channelID, "context", "failed to delete channel").Wrap(err)
	}
	if !deleted {
		return errors.ErrChannelNotFound
	}
	return nil
}
