//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// State is the step an admin is at in a multi-message flow
// ENUM(idle,awaiting_channel_name,awaiting_channel_link,awaiting_channel_id,awaiting_forward)
type State string
