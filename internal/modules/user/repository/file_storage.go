package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/user/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
)

// FileStorage implements user.Repository using file system
type FileStorage struct {
	users *storage.FileCollection[domain.User]
}

// NewFileStorage creates a new file-based user repository
func NewFileStorage(basePath string) (Repository, error) {
	users, err := storage.NewFileCollection[domain.User](basePath, "users")
	if err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create users directory").Wrap(err)
	}

	return &FileStorage{users: users}, nil
}

func (s *FileStorage) SaveUser(_ context.Context, user *domain.User) error {
	if err := s.users.Save(key(user.ID), user); err != nil {
		return oops.With("user_id", user.ID, "context", "failed to save user").Wrap(err)
	}
	return nil
}

func (s *FileStorage) GetUser(_ context.Context, userID int64) (*domain.User, error) {
	user, found, err := s.users.Get(key(userID))
	if err != nil {
		return nil, oops.With("user_id", userID, "context", "failed to read user").Wrap(err)
	}
	if !found {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

func (s *FileStorage) GetAllUsers(_ context.Context) ([]*domain.User, error) {
	return s.users.All()
}

func (s *FileStorage) SetBanned(_ context.Context, userID int64, banned bool) error {
	_, err := s.users.Update(key(userID), func(user *domain.User) (*domain.User, error) {
		if user == nil {
			user = &domain.User{ID: userID, JoinedAt: time.Now()}
		}
		user.Banned = banned
		return user, nil
	})
	if err != nil {
		return oops.With("user_id", userID, "banned", banned, "context", "failed to update ban").Wrap(err)
	}
	return nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
