package domain

import (
	"testing"

	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChannelPath(t *testing.T) {
	s := &Session{AdminID: 1, State: StateIdle}

	require.NoError(t, s.Transition(StateAwaitingChannelName))
	s.DraftName = "News"
	require.NoError(t, s.Transition(StateAwaitingChannelLink))
	s.DraftLink = "https://t.me/news"
	require.NoError(t, s.Transition(StateAwaitingChannelId))
	require.NoError(t, s.Transition(StateIdle))

	assert.Equal(t, StateIdle, s.State)
	assert.Empty(t, s.DraftName)
	assert.Empty(t, s.DraftLink)
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{StateIdle, StateAwaitingChannelLink},
		{StateIdle, StateAwaitingChannelId},
		{StateAwaitingChannelName, StateAwaitingChannelId},
		{StateAwaitingChannelLink, StateAwaitingForward},
		{StateAwaitingForward, StateAwaitingChannelName},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			s := &Session{State: tt.from}
			err := s.Transition(tt.to)
			assert.ErrorIs(t, err, errors.ErrInvalidTransition)
			assert.Equal(t, tt.from, s.State)
		})
	}
}

func TestAnyStateCanReset(t *testing.T) {
	for _, name := range StateNames() {
		state, err := ParseState(name)
		require.NoError(t, err)
		assert.True(t, CanTransition(state, StateIdle), name)
	}
}
