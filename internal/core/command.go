package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin enters the chat with a display name.
	CommandJoin CommandKind = iota
	// CommandSendMessage submits chat text for routing.
	CommandSendMessage
	// CommandTypingStart raises the sender's typing flag.
	CommandTypingStart
	// CommandTypingStop clears the sender's typing flag.
	CommandTypingStop
)

// Command represents an action requested by a client. Disconnects are not
// commands: they arrive through Hub.UnregisterClient when the connection dies.
type Command struct {
	Kind CommandKind
	Name string // display name, for CommandJoin
	Text string // message body, for CommandSendMessage
}
