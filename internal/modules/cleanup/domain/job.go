package domain

import "time"

// DeletionJob removes delivered messages from a chat once DueAt passes.
type DeletionJob struct {
	ID         string    `json:"id" bson:"_id"`
	ChatID     int64     `json:"chat_id" bson:"chat_id"`
	MessageIDs []int     `json:"message_ids" bson:"message_ids"`
	Keyword    string    `json:"keyword" bson:"keyword"`
	DueAt      time.Time `json:"due_at" bson:"due_at"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// IsDue reports whether the job may run at now.
func (j *DeletionJob) IsDue(now time.Time) bool {
	return !now.Before(j.DueAt)
}
