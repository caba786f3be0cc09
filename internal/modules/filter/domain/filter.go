package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
)

// Filter is a named, ordered collection of source-channel messages
// retrievable through a deep link.
type Filter struct {
	Keyword           string    `json:"keyword" bson:"_id"`
	MessageIDs        []int     `json:"message_ids" bson:"message_ids"`
	AutoDeleteSeconds int       `json:"auto_delete_seconds" bson:"auto_delete_seconds"`
	OriginMessageID   int       `json:"origin_message_id" bson:"origin_message_id"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// AutoDelete returns the per-filter deletion delay, zero when unset.
func (f *Filter) AutoDelete() time.Duration {
	return time.Duration(f.AutoDeleteSeconds) * time.Second
}

// IsEmpty reports whether the filter has nothing to deliver.
func (f *Filter) IsEmpty() bool {
	return len(f.MessageIDs) == 0
}

// MaxKeywordLength keeps "retry:"+keyword within the 64 bytes Telegram
// allows for callback data.
const MaxKeywordLength = 58

// Telegram only accepts these characters in a start parameter.
var keywordPattern = regexp.MustCompile(`^[a-z0-9_-]{1,58}$`)

// NormalizeKeyword lower-cases raw and strips a leading '#'.
func NormalizeKeyword(raw string) (string, error) {
	keyword := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if !keywordPattern.MatchString(keyword) {
		return "", errors.ErrInvalidKeyword
	}
	return keyword, nil
}

// KeywordFromPost returns the keyword announced by a channel post.
// Only a lone token qualifies.
func KeywordFromPost(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 1 {
		return "", false
	}
	keyword, err := NormalizeKeyword(fields[0])
	if err != nil {
		return "", false
	}
	return keyword, true
}
