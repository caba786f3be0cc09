package domain

import "time"

// User is someone who opened the bot at least once, or was banned by id.
type User struct {
	ID        int64     `json:"id" bson:"_id"`
	Username  string    `json:"username" bson:"username"`
	FirstName string    `json:"first_name" bson:"first_name"`
	Banned    bool      `json:"banned" bson:"banned"`
	JoinedAt  time.Time `json:"joined_at" bson:"joined_at"`
}
