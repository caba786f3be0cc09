package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/user/domain"
	"github.com/reshetovitsme/file-share-bot/internal/modules/user/repository"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/samber/lo"
)

// Service handles user business logic
type Service struct {
	repo repository.Repository
}

// New creates a new user service
func New(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Register records a user on /start. It reports whether the user is new.
// An existing ban flag is preserved.
func (s *Service) Register(ctx context.Context, userID int64, username, firstName string) (bool, error) {
	user, err := s.repo.GetUser(ctx, userID)
	switch {
	case errors.Is(err, sharedErrors.ErrUserNotFound):
		return true, s.repo.SaveUser(ctx, &domain.User{
			ID:        userID,
			Username:  username,
			FirstName: firstName,
			JoinedAt:  time.Now(),
		})
	case err != nil:
		return false, err
	}

	if user.Username == username && user.FirstName == firstName {
		return false, nil
	}
	user.Username = username
	user.FirstName = firstName
	return false, s.repo.SaveUser(ctx, user)
}

// IsBanned reports whether the user is banned. Lookup errors are logged and
// treated as not banned.
func (s *Service) IsBanned(ctx context.Context, userID int64) bool {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, sharedErrors.ErrUserNotFound) {
			slog.Error("Failed to check ban", "user_id", userID, "error", err)
		}
		return false
	}
	return user.Banned
}

// Ban marks a user as banned.
func (s *Service) Ban(ctx context.Context, userID int64) error {
	return s.repo.SetBanned(ctx, userID, true)
}

// Unban lifts a ban.
func (s *Service) Unban(ctx context.Context, userID int64) error {
	return s.repo.SetBanned(ctx, userID, false)
}

// Recipients returns the ids of every registered, non-banned user.
func (s *Service) Recipients(ctx context.Context) ([]int64, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(users, func(u *domain.User, _ int) (int64, bool) {
		return u.ID, !u.Banned
	}), nil
}

// Stats returns the number of users and how many of them are banned.
func (s *Service) Stats(ctx context.Context) (total, banned int, err error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return 0, 0, err
	}
	return len(users), lo.CountBy(users, func(u *domain.User) bool { return u.Banned }), nil
}
