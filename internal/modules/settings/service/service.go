package service

import (
	"context"
	"sync"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/settings/domain"
	"github.com/reshetovitsme/file-share-bot/internal/modules/settings/repository"
)

// Service handles the bot-wide settings.
type Service struct {
	repo repository.Repository
	mu   sync.Mutex
}

// New creates a new settings service
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (*domain.Settings, error) {
	return s.repo.Get(ctx)
}

// ToggleProtectContent flips forward protection and returns the new value.
func (s *Service) ToggleProtectContent(ctx context.Context) (bool, error) {
	settings, err := s.update(ctx, func(settings *domain.Settings) {
		settings.ProtectContent = !settings.ProtectContent
	})
	if err != nil {
		return false, err
	}
	return settings.ProtectContent, nil
}

// SetAutoDelete sets the global deletion delay; zero disables it.
func (s *Service) SetAutoDelete(ctx context.Context, delay time.Duration) error {
	_, err := s.update(ctx, func(settings *domain.Settings) {
		settings.AutoDeleteSeconds = int(delay / time.Second)
	})
	return err
}

// ActiveFilter implements the filter service's ActiveStore.
func (s *Service) ActiveFilter(ctx context.Context) (string, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	return settings.ActiveFilter, nil
}

// SetActiveFilter implements the filter service's ActiveStore.
func (s *Service) SetActiveFilter(ctx context.Context, keyword string) error {
	_, err := s.update(ctx, func(settings *domain.Settings) {
		settings.ActiveFilter = keyword
	})
	return err
}

func (s *Service) update(ctx context.Context, mutate func(*domain.Settings)) (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	mutate(settings)
	settings.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
