package domain

import "github.com/disgoorg/snowflake/v2"

// MessageRef identifies a message sent by the presenter.
type MessageRef struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

// IsZero reports whether the ref points at nothing.
func (r MessageRef) IsZero() bool {
	return r.MessageID == 0
}
