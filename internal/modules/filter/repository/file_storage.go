package repository

import (
	"context"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileStorage implements Repository using file system
type FileStorage struct {
	filters *storage.FileCollection[domain.Filter]
}

// NewFileStorage creates a new file-based filter repository
func NewFileStorage(basePath string) (Repository, error) {
	filters, err := storage.NewFileCollection[domain.Filter](basePath, "filters")
	if err != nil {
		return nil, oops.With("context", "failed to initialize filter storage").Wrap(err)
	}
	return &FileStorage{filters: filters}, nil
}

func (s *FileStorage) Save(_ context.Context, filter *domain.Filter) error {
	return s.filters.Save(filter.Keyword, filter)
}

func (s *FileStorage) Get(_ context.Context, keyword string) (*domain.Filter, error) {
	filter, found, err := s.filters.Get(keyword)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrFilterNotFound
	}
	return filter, nil
}

func (s *FileStorage) GetByOrigin(_ context.Context, originMessageID int) (*domain.Filter, error) {
	filters, err := s.filters.All()
	if err != nil {
		return nil, err
	}
	filter, found := lo.Find(filters, func(f *domain.Filter) bool {
		return f.OriginMessageID == originMessageID
	})
	if !found {
		return nil, errors.ErrFilterNotFound
	}
	return filter, nil
}

func (s *FileStorage) GetAll(_ context.Context) ([]*domain.Filter, error) {
	return s.filters.All()
}

func (s *FileStorage) AppendMessage(_ context.Context, keyword string, messageID int) (*domain.Filter, error) {
	return s.filters.Update(keyword, func(filter *domain.Filter) (*domain.Filter, error) {
		if filter == nil {
			return nil, errors.ErrFilterNotFound
		}
		filter.MessageIDs = append(filter.MessageIDs, messageID)
		filter.UpdatedAt = time.Now()
		return filter, nil
	})
}

func (s *FileStorage) Delete(_ context.Context, keyword string) error {
	deleted, err := s.filters.Delete(keyword)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.ErrFilterNotFound
	}
	return nil
}
