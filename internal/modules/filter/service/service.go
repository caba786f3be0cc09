package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	"github.com/reshetovitsme/file-share-bot/internal/modules/filter/repository"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/samber/oops"
)

// ActiveStore persists the active filter pointer.
type ActiveStore interface {
	ActiveFilter(ctx context.Context) (string, error)
	SetActiveFilter(ctx context.Context, keyword string) error
}

// Service handles the filter lifecycle.
type Service struct {
	repo        repository.Repository
	activeStore ActiveStore

	// mu serialises every change that reads or moves the active pointer
	mu     sync.Mutex
	active string
}

// New creates a new filter service
func New(repo repository.Repository, activeStore ActiveStore) *Service {
	return &Service{
		repo:        repo,
		activeStore: activeStore,
	}
}

// Restore loads the persisted active pointer.
func (s *Service) Restore(ctx context.Context) error {
	keyword, err := s.activeStore.ActiveFilter(ctx)
	if err != nil {
		return oops.With("context", "failed to restore active filter").Wrap(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = keyword
	return nil
}

// Active returns the keyword currently receiving channel media.
func (s *Service) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Activate creates the filter if unseen and makes it the active target.
// Reactivating an existing keyword only marks it active; its messages and
// the post that created it stay unchanged.
func (s *Service) Activate(ctx context.Context, rawKeyword string, originMessageID int) (*domain.Filter, bool, error) {
	keyword, err := domain.NormalizeKeyword(rawKeyword)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	created := false
	filter, err := s.repo.Get(ctx, keyword)
	switch {
	case errors.Is(err, sharedErrors.ErrFilterNotFound):
		created = true
		filter = &domain.Filter{
			Keyword:         keyword,
			MessageIDs:      []int{},
			OriginMessageID: originMessageID,
			CreatedAt:       now,
		}
	case err != nil:
		return nil, false, err
	}

	filter.UpdatedAt = now
	if err := s.repo.Save(ctx, filter); err != nil {
		return nil, false, err
	}

	if err := s.setActive(ctx, keyword); err != nil {
		return nil, false, err
	}

	return filter, created, nil
}

// AppendMedia adds a channel message to its target filter. A reply to a
// keyword post targets that keyword; anything else goes to the active filter.
func (s *Service) AppendMedia(ctx context.Context, messageID, replyToMessageID int) (*domain.Filter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.active
	if replyToMessageID != 0 {
		origin, err := s.repo.GetByOrigin(ctx, replyToMessageID)
		switch {
		case err == nil:
			target = origin.Keyword
		case !errors.Is(err, sharedErrors.ErrFilterNotFound):
			return nil, err
		}
	}

	if target == "" {
		return nil, sharedErrors.ErrNoActiveFilter
	}

	filter, err := s.repo.AppendMessage(ctx, target, messageID)
	if err != nil {
		if errors.Is(err, sharedErrors.ErrFilterNotFound) && target == s.active {
			// the active filter was removed behind our back
			_ = s.setActive(ctx, "")
			return nil, sharedErrors.ErrNoActiveFilter
		}
		return nil, err
	}
	return filter, nil
}

// Resolve returns a deliverable filter. Missing and empty filters are both
// reported as ErrFilterNotFound.
func (s *Service) Resolve(ctx context.Context, rawKeyword string) (*domain.Filter, error) {
	keyword, err := domain.NormalizeKeyword(rawKeyword)
	if err != nil {
		return nil, sharedErrors.ErrFilterNotFound
	}

	filter, err := s.repo.Get(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return nil, sharedErrors.ErrFilterNotFound
	}
	return filter, nil
}

// Delete removes a filter by keyword.
func (s *Service) Delete(ctx context.Context, rawKeyword string) error {
	keyword, err := domain.NormalizeKeyword(rawKeyword)
	if err != nil {
		return sharedErrors.ErrFilterNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delete(ctx, keyword)
}

// DeleteByOrigin removes the filters whose keyword posts were deleted from
// the source channel. Ids that are not keyword posts are ignored.
func (s *Service) DeleteByOrigin(ctx context.Context, originMessageIDs ...int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []string
	for _, id := range originMessageIDs {
		filter, err := s.repo.GetByOrigin(ctx, id)
		if errors.Is(err, sharedErrors.ErrFilterNotFound) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		if err := s.delete(ctx, filter.Keyword); err != nil && !errors.Is(err, sharedErrors.ErrFilterNotFound) {
			return deleted, err
		}
		deleted = append(deleted, filter.Keyword)
	}
	return deleted, nil
}

func (s *Service) delete(ctx context.Context, keyword string) error {
	if err := s.repo.Delete(ctx, keyword); err != nil {
		return err
	}

	if s.active == keyword {
		if err := s.setActive(ctx, ""); err != nil {
			slog.Error("Failed to clear active filter", "keyword", keyword, "error", err)
		}
	}
	return nil
}

// SetAutoDelete sets the per-filter deletion delay; zero disables it.
func (s *Service) SetAutoDelete(ctx context.Context, rawKeyword string, delay time.Duration) (*domain.Filter, error) {
	keyword, err := domain.NormalizeKeyword(rawKeyword)
	if err != nil {
		return nil, sharedErrors.ErrFilterNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filter, err := s.repo.Get(ctx, keyword)
	if err != nil {
		return nil, err
	}

	filter.AutoDeleteSeconds = int(delay / time.Second)
	filter.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, filter); err != nil {
		return nil, err
	}
	return filter, nil
}

// List returns all filters sorted by keyword.
func (s *Service) List(ctx context.Context) ([]*domain.Filter, error) {
	filters, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(filters, func(i, j int) bool {
		return filters[i].Keyword < filters[j].Keyword
	})
	return filters, nil
}

// setActive must be called with mu held.
func (s *Service) setActive(ctx context.Context, keyword string) error {
	if err := s.activeStore.SetActiveFilter(ctx, keyword); err != nil {
		return oops.With("keyword", keyword, "context", "failed to persist active filter").Wrap(err)
	}
	s.active = keyword
	return nil
}
