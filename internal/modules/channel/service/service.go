package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/file-share-bot/internal/modules/channel/domain"
	"github.com/reshetovitsme/file-share-bot/internal/modules/channel/repository"
	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/messenger"
	"github.com/samber/lo"
)

// Service manages the join-gate channel list.
type Service struct {
	repo   repository.Repository
	client messenger.Client
	mu     sync.Mutex
}

// New creates a new channel service
func New(repo repository.Repository, client messenger.Client) *Service {
	return &Service{
		repo:   repo,
		client: client,
	}
}

// Add stores a join channel. Duplicate links or ids are rejected.
func (s *Service) Add(ctx context.Context, name, link string, channelID int64) (*domain.JoinChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels, err := s.repo.GetAllChannels(ctx)
	if err != nil {
		return nil, err
	}
	if lo.ContainsBy(channels, func(c *domain.JoinChannel) bool {
		return c.ID == channelID || c.InviteLink == link
	}) {
		return nil, errors.ErrChannelExists
	}

	channel := &domain.JoinChannel{
		ID:         channelID,
		Name:       strings.TrimSpace(name),
		InviteLink: link,
		AddedAt:    time.Now(),
	}
	if err := s.repo.SaveChannel(ctx, channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// Remove deletes a channel identified by its invite link or numeric id.
func (s *Service) Remove(ctx context.Context, linkOrID string) (*domain.JoinChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels, err := s.repo.GetAllChannels(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.TrimSpace(linkOrID)
	id, idErr := domain.ParseChannelID(needle)
	channel, found := lo.Find(channels, func(c *domain.JoinChannel) bool {
		return c.InviteLink == needle || (idErr == nil && c.ID == id)
	})
	if !found {
		return nil, errors.ErrChannelNotFound
	}

	if err := s.repo.DeleteChannel(ctx, channel.ID); err != nil {
		return nil, err
	}
	return channel, nil
}

// List returns the join channels in the order they were added.
func (s *Service) List(ctx context.Context) ([]*domain.JoinChannel, error) {
	channels, err := s.repo.GetAllChannels(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(channels, func(i, j int) bool {
		return channels[i].AddedAt.Before(channels[j].AddedAt)
	})
	return channels, nil
}

// Missing returns the channels the user has not joined. Every call asks the
// Bot API; lookup failures count as not joined.
func (s *Service) Missing(ctx context.Context, userID int64) ([]*domain.JoinChannel, error) {
	channels, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Filter(channels, func(c *domain.JoinChannel, _ int) bool {
		member, err := s.client.GetChatMember(ctx, &bot.GetChatMemberParams{
			ChatID: c.ID,
			UserID: userID,
		})
		if err != nil {
			slog.Debug("Membership lookup failed", "channel_id", c.ID, "user_id", userID, "error", err)
			return true
		}
		return !IsMember(member)
	}), nil
}

// IsMember reports whether a chat member status counts as joined.
func IsMember(member *models.ChatMember) bool {
	if member == nil {
		return false
	}
	switch member.Type {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator, models.ChatMemberTypeMember:
		return true
	case models.ChatMemberTypeRestricted:
		return member.Restricted != nil && member.Restricted.IsMember
	default:
		return false
	}
}
