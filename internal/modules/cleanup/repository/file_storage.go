package repository

import (
	"context"
	"sort"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileStorage implements Repository using file system
type FileStorage struct {
	jobs *storage.FileCollection[domain.DeletionJob]
}

// NewFileStorage creates a new file-based deletion job repository
func NewFileStorage(basePath string) (Repository, error) {
	jobs, err := storage.NewFileCollection[domain.DeletionJob](basePath, "deletion_jobs")
	if err != nil {
		return nil, oops.With("context", "failed to initialize deletion job storage").Wrap(err)
	}
	return &FileStorage{jobs: jobs}, nil
}

func (s *FileStorage) Save(_ context.Context, job *domain.DeletionJob) error {
	return s.jobs.Save(job.ID, job)
}

func (s *FileStorage) Due(_ context.Context, now time.Time) ([]*domain.DeletionJob, error) {
	jobs, err := s.jobs.All()
	if err != nil {
		return nil, err
	}
	due := lo.Filter(jobs, func(j *domain.DeletionJob, _ int) bool {
		return j.IsDue(now)
	})
	sort.Slice(due, func(i, k int) bool {
		return due[i].DueAt.Before(due[k].DueAt)
	})
	return due, nil
}

func (s *FileStorage) Delete(_ context.Context, id string) error {
	deleted, err := s.jobs.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.ErrJobNotFound
	}
	return nil
}

func (s *FileStorage) DeleteByChat(_ context.Context, chatID int64) (int, error) {
	jobs, err := s.jobs.All()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, job := range jobs {
		if job.ChatID != chatID {
			continue
		}
		deleted, err := s.jobs.Delete(job.ID)
		if err != nil {
			return count, err
		}
		if deleted {
			count++
		}
	}
	return count, nil
}
