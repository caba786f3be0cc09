package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/settings/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
)

// FileStorage implements Repository using file system
type FileStorage struct {
	settings *storage.FileCollection[domain.Settings]
}

// NewFileStorage creates a new file-based settings repository
func NewFileStorage(basePath string) (Repository, error) {
	settings, err := storage.NewFileCollection[domain.Settings](basePath, "config")
	if err != nil {
		return nil, oops.With("context", "failed to initialize settings storage").Wrap(err)
	}
	return &FileStorage{settings: settings}, nil
}

func (s *FileStorage) Get(_ context.Context) (*domain.Settings, error) {
	settings, found, err := s.settings.Get(domain.SettingsID)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.Default(), nil
	}
	return settings, nil
}

func (s *FileStorage) Save(_ context.Context, settings *domain.Settings) error {
	settings.ID = domain.SettingsID
	return s.settings.Save(domain.SettingsID, settings)
}
