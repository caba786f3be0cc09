package repository

import (
	"context"
	"strconv"

	"github.com/reshetovitsme/file-share-bot/internal/modules/conversation/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
)

// FileStorage implements Repository using file system
type FileStorage struct {
	sessions *storage.FileCollection[domain.Session]
}

// NewFileStorage creates a new file-based session repository
func NewFileStorage(basePath string) (Repository, error) {
	sessions, err := storage.NewFileCollection[domain.Session](basePath, "conversations")
	if err != nil {
		return nil, oops.With("context", "failed to initialize session storage").Wrap(err)
	}
	return &FileStorage{sessions: sessions}, nil
}

func (s *FileStorage) Get(_ context.Context, adminID int64) (*domain.Session, error) {
	session, found, err := s.sessions.Get(strconv.FormatInt(adminID, 10))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrSessionNotFound
	}
	return session, nil
}

func (s *FileStorage) Save(_ context.Context, session *domain.Session) error {
	return s.sessions.Save(strconv.FormatInt(session.AdminID, 10), session)
}

func (s *FileStorage) Delete(_ context.Context, adminID int64) error {
	_, err := s.sessions.Delete(strconv.FormatInt(adminID, 10))
	return err
}
