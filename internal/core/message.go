package core

import "time"

// Message is the domain model for one unit of chat content. Immutable once
// created. Direct messages are delivered but never enter the shared history.
type Message struct {
	Sender    string
	Text      string
	CreatedAt time.Time
	Direct    bool
	Recipient string // display name of the target, set when Direct
}
