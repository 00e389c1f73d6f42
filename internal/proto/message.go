package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	InboundTypeJoin        = "join"
	InboundTypeMessage     = "message"
	InboundTypeTypingStart = "typing_start"
	InboundTypeTypingStop  = "typing_stop"

	OutboundTypeWelcome      = "welcome"
	OutboundTypeHistory      = "history"
	OutboundTypeMessage      = "message"
	OutboundTypeSystem       = "system"
	OutboundTypeRoster       = "roster"
	OutboundTypeTypingRoster = "typing_roster"
	OutboundTypeError        = "error"
)

// JoinData introduces the client with its chosen display name.
type JoinData struct {
	DisplayName string `json:"display_name"`
}

// MessageData is chat text submitted by the client.
type MessageData struct {
	Text string `json:"text"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// WelcomeData confirms a join to the new session only.
type WelcomeData struct {
	SessionID   string `json:"session_id"`
	DisplayName string `json:"display_name"`
}

// MessageEvent is one delivered chat message. Timestamps render as RFC3339.
type MessageEvent struct {
	Text          string    `json:"text"`
	SenderName    string    `json:"sender_name"`
	Timestamp     time.Time `json:"timestamp"`
	IsDirect      bool      `json:"is_direct"`
	RecipientName string    `json:"recipient_name,omitempty"`
}

// HistoryData replays buffered messages to a joining session, oldest first.
type HistoryData struct {
	Messages []MessageEvent `json:"messages"`
}

// SystemData carries join/leave/server notices.
type SystemData struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// RosterEntry identifies one joined session.
type RosterEntry struct {
	SessionID   string `json:"session_id"`
	DisplayName string `json:"display_name"`
}

// RosterData is the current session list, broadcast on every join and leave.
type RosterData struct {
	Sessions []RosterEntry `json:"sessions"`
}

// TypingRosterData lists who is currently typing, broadcast on every change.
type TypingRosterData struct {
	DisplayNames []string `json:"display_names"`
}

// ErrorData reports a problem to the offending sender only.
type ErrorData struct {
	Code string `json:"code,omitempty"`
	Text string `json:"text"`
}
