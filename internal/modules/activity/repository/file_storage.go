package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/activity/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
)

// FileStorage implements Repository using file system
type FileStorage struct {
	events *storage.FileCollection[domain.Event]
}

// NewFileStorage creates a new file-based activity log
func NewFileStorage(basePath string) (Repository, error) {
	events, err := storage.NewFileCollection[domain.Event](basePath, "logs")
	if err != nil {
		return nil, oops.With("context", "failed to initialize activity log storage").Wrap(err)
	}
	return &FileStorage{events: events}, nil
}

func (s *FileStorage) Save(_ context.Context, event *domain.Event) error {
	return s.events.Save(event.ID, event)
}

func (s *FileStorage) Count(_ context.Context) (int64, error) {
	events, err := s.events.All()
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}
