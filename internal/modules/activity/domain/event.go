package domain

import "time"

// Kind names an activity event.
type Kind string

const (
	KindStart          Kind = "start"
	KindNewUser        Kind = "new_user"
	KindFilterCreated  Kind = "filter_created"
	KindFilterAccessed Kind = "filter_accessed"
)

// Event is one persisted activity log entry.
type Event struct {
	ID      string    `json:"id" bson:"_id"`
	Kind    Kind      `json:"kind" bson:"kind"`
	UserID  int64     `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Keyword string    `json:"keyword,omitempty" bson:"keyword,omitempty"`
	Text    string    `json:"event" bson:"event"`
	Time    time.Time `json:"time" bson:"time"`
}
