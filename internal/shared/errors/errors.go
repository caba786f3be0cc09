package errors

import "errors"

var (
	ErrMissingBotToken      = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	ErrMissingAdminIDs      = errors.New("ADMIN_IDS environment variable is required")
	ErrMissingSourceChannel = errors.New("SOURCE_CHANNEL_ID environment variable is required")
	ErrMissingMongoURL      = errors.New("MONGODB_URL environment variable is required for the mongo storage driver")

	ErrFilterNotFound  = errors.New("filter not found")
	ErrInvalidKeyword  = errors.New("invalid keyword")
	ErrNoActiveFilter  = errors.New("no active filter")
	ErrUserNotFound    = errors.New("user not found")
	ErrChannelNotFound = errors.New("channel not found")
	ErrChannelExists   = errors.New("channel already added")
	ErrSessionNotFound = errors.New("session not found")
	ErrJobNotFound     = errors.New("deletion job not found")

	ErrInvalidTransition = errors.New("invalid conversation transition")
	ErrInvalidLink       = errors.New("invalid channel link")
	ErrInvalidChannelID  = errors.New("invalid channel id")
	ErrInvalidDuration   = errors.New("invalid auto-delete duration")
)
