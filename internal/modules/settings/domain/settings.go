package domain

import "time"

// SettingsID is the key of the singleton settings document.
const SettingsID = "bot"

// Settings holds the bot-wide switches.
type Settings struct {
	ID                string    `json:"id" bson:"_id"`
	ActiveFilter      string    `json:"active_filter" bson:"active_filter"`
	ProtectContent    bool      `json:"protect_content" bson:"protect_content"`
	AutoDeleteSeconds int       `json:"auto_delete_seconds" bson:"auto_delete_seconds"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// Default returns the settings used before anything was saved.
func Default() *Settings {
	return &Settings{ID: SettingsID}
}

// AutoDelete returns the global deletion delay, zero when disabled.
func (s *Settings) AutoDelete() time.Duration {
	return time.Duration(s.AutoDeleteSeconds) * time.Second
}
