package core

import "time"

// EventKind is a notification the engine emits to clients.
type EventKind int

const (
	// EventWelcome confirms a join to the joining client only.
	EventWelcome EventKind = iota
	// EventHistory replays buffered messages to a newly joined client.
	EventHistory
	// EventMessage delivers a chat message.
	EventMessage
	// EventSystem carries join/leave/server notices.
	EventSystem
	// EventRoster announces the current session list.
	EventRoster
	// EventTypingRoster announces who is currently typing.
	EventTypingRoster
	// EventError reports a routing problem to the offending sender.
	EventError
)

// RosterEntry identifies one joined session for presence display.
type RosterEntry struct {
	SessionID string
	Name      string
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind      EventKind
	SessionID string    // EventWelcome
	Name      string    // EventWelcome
	Message   Message   // EventMessage
	Messages  []Message // EventHistory, oldest first
	Text      string    // EventSystem
	Timestamp time.Time // EventSystem
	Roster    []RosterEntry
	Typing    []string
	Error     *EngineError
}
