package domain

import (
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/samber/oops"
)

// Session is the conversation state of one admin.
type Session struct {
	AdminID   int64     `json:"admin_id" bson:"_id"`
	State     State     `json:"state" bson:"state"`
	DraftName string    `json:"draft_name,omitempty" bson:"draft_name,omitempty"`
	DraftLink string    `json:"draft_link,omitempty" bson:"draft_link,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

var transitions = map[State][]State{
	StateIdle:                {StateAwaitingChannelName, StateAwaitingForward},
	StateAwaitingChannelName: {StateAwaitingChannelLink},
	StateAwaitingChannelLink: {StateAwaitingChannelId},
}

// CanTransition reports whether from → to is allowed.
// Returning to idle is always allowed.
func CanTransition(from, to State) bool {
	if to == StateIdle {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the session to the next state.
func (s *Session) Transition(to State) error {
	if !CanTransition(s.State, to) {
		return oops.With("from", s.State, "to", to).Wrap(errors.ErrInvalidTransition)
	}
	s.State = to
	if to == StateIdle {
		s.DraftName = ""
		s.DraftLink = ""
	}
	s.UpdatedAt = time.Now()
	return nil
}
