package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	channelDomain "github.com/reshetovitsme/file-share-bot/internal/modules/channel/domain"
	"github.com/reshetovitsme/file-share-bot/internal/modules/conversation/domain"
	"github.com/reshetovitsme/file-share-bot/internal/modules/conversation/repository"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
)

// ChannelAdder stores a finished add-channel flow.
type ChannelAdder interface {
	Add(ctx context.Context, name, link string, channelID int64) (*channelDomain.JoinChannel, error)
}

// Input is one private message from an admin with an open session.
type Input struct {
	Text string
	// ForwardedChatID is the origin chat of a message forwarded from a
	// channel, zero otherwise.
	ForwardedChatID    int64
	ForwardedChatTitle string
}

// Service drives the multi-message admin flows.
type Service struct {
	repo     repository.Repository
	channels ChannelAdder
}

// New creates a new conversation service
func New(repo repository.Repository, channels ChannelAdder) *Service {
	return &Service{
		repo:     repo,
		channels: channels,
	}
}

// Current returns the admin's session, idle when none is stored.
func (s *Service) Current(ctx context.Context, adminID int64) (*domain.Session, error) {
	session, err := s.repo.Get(ctx, adminID)
	if errors.Is(err, sharedErrors.ErrSessionNotFound) {
		return &domain.Session{AdminID: adminID, State: domain.StateIdle}, nil
	}
	return session, err
}

// Begin resets any open flow and moves the admin into state.
func (s *Service) Begin(ctx context.Context, adminID int64, state domain.State) error {
	session := &domain.Session{AdminID: adminID, State: domain.StateIdle, UpdatedAt: time.Now()}
	if err := session.Transition(state); err != nil {
		return err
	}
	return s.repo.Save(ctx, session)
}

// Reset clears the admin's session.
func (s *Service) Reset(ctx context.Context, adminID int64) error {
	return s.repo.Delete(ctx, adminID)
}

// Handle feeds one message into the admin's open flow. handled is false when
// the admin has no open flow.
func (s *Service) Handle(ctx context.Context, adminID int64, in Input) (reply string, handled bool, err error) {
	session, err := s.Current(ctx, adminID)
	if err != nil {
		return "", false, err
	}

	switch session.State {
	case domain.StateAwaitingChannelName:
		reply, err = s.handleName(ctx, session, in)
	case domain.StateAwaitingChannelLink:
		reply, err = s.handleLink(ctx, session, in)
	case domain.StateAwaitingChannelId:
		reply, err = s.handleID(ctx, session, in)
	case domain.StateAwaitingForward:
		reply, err = s.handleForward(ctx, session, in)
	default:
		return "", false, nil
	}
	return reply, true, err
}

func (s *Service) handleName(ctx context.Context, session *domain.Session, in Input) (string, error) {
	name := strings.TrimSpace(in.Text)
	if name == "" {
		return s.abort(ctx, session, "❌ Channel name cannot be empty. Start over with /add_channel.")
	}

	session.DraftName = name
	if err := s.advance(ctx, session, domain.StateAwaitingChannelLink); err != nil {
		return "", err
	}
	return "Send the channel invite link (" + channelDomain.LinkPrefix + "...):", nil
}

func (s *Service) handleLink(ctx context.Context, session *domain.Session, in Input) (string, error) {
	link, err := channelDomain.ValidateLink(in.Text)
	if err != nil {
		return s.abort(ctx, session, "❌ Invalid link, it must start with "+channelDomain.LinkPrefix+". Start over with /add_channel.")
	}

	session.DraftLink = link
	if err := s.advance(ctx, session, domain.StateAwaitingChannelId); err != nil {
		return "", err
	}
	return "Send the numeric channel id (e.g. -1001234567890). Use /channel_id to look it up.", nil
}

func (s *Service) handleID(ctx context.Context, session *domain.Session, in Input) (string, error) {
	id, err := channelDomain.ParseChannelID(in.Text)
	if err != nil {
		return s.abort(ctx, session, "❌ The channel id must be a number. Start over with /add_channel.")
	}

	name, link := session.DraftName, session.DraftLink
	if err := s.Reset(ctx, session.AdminID); err != nil {
		return "", err
	}

	channel, err := s.channels.Add(ctx, name, link, id)
	switch {
	case errors.Is(err, sharedErrors.ErrChannelExists):
		return "❌ This channel is already added.", nil
	case err != nil:
		return "", err
	}
	return fmt.Sprintf("✅ Channel %s added.\nLink: %s\nID: %d", channel.Name, channel.InviteLink, channel.ID), nil
}

func (s *Service) handleForward(ctx context.Context, session *domain.Session, in Input) (string, error) {
	if err := s.Reset(ctx, session.AdminID); err != nil {
		return "", err
	}
	if in.ForwardedChatID == 0 {
		return "❌ That message was not forwarded from a channel. Send /channel_id to try again.", nil
	}
	return fmt.Sprintf("Channel: %s\nID: %d", in.ForwardedChatTitle, in.ForwardedChatID), nil
}

// abort resets the flow after a validation failure.
func (s *Service) abort(ctx context.Context, session *domain.Session, reply string) (string, error) {
	if err := s.Reset(ctx, session.AdminID); err != nil {
		slog.Error("Failed to reset session", "admin_id", session.AdminID, "error", err)
	}
	return reply, nil
}

func (s *Service) advance(ctx context.Context, session *domain.Session, to domain.State) error {
	if err := session.Transition(to); err != nil {
		_ = s.Reset(ctx, session.AdminID)
		return err
	}
	return s.repo.Save(ctx, session)
}
