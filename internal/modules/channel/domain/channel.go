package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
)

// LinkPrefix is the only accepted invite link prefix.
const LinkPrefix = "https://t.me/"

// JoinChannel is a channel users must join before files are delivered.
type JoinChannel struct {
	ID         int64     `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	InviteLink string    `json:"invite_link" bson:"invite_link"`
	AddedAt    time.Time `json:"added_at" bson:"added_at"`
}

// ValidateLink checks an invite link entered by an admin.
func ValidateLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, LinkPrefix) || len(link) == len(LinkPrefix) {
		return "", errors.ErrInvalidLink
	}
	return link, nil
}

// ParseChannelID parses a numeric chat id such as -1001234567890.
func ParseChannelID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.ErrInvalidChannelID
	}
	return id, nil
}
