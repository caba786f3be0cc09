package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
)

var autoDeletePresets = map[string]time.Duration{
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"12h": 12 * time.Hour,
	"24h": 24 * time.Hour,
	"off": 0,
}

// AutoDeletePresets lists the accepted arguments in display order.
var AutoDeletePresets = []string{"30m", "1h", "12h", "24h", "off"}

// ParseAutoDelete converts a preset such as "30m" into a delay.
func ParseAutoDelete(s string) (time.Duration, error) {
	d, ok := autoDeletePresets[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, errors.ErrInvalidDuration
	}
	return d, nil
}

// FormatAutoDelete renders a delay for user-facing messages.
func FormatAutoDelete(d time.Duration) string {
	switch {
	case d <= 0:
		return "off"
	case d%time.Hour == 0:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return strconv.Itoa(hours) + " hours"
	default:
		return strconv.Itoa(int(d/time.Minute)) + " minutes"
	}
}
