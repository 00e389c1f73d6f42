package core

import "sync/atomic"

// clientState tracks the lifecycle of one connection inside the engine.
type clientState int

const (
	stateConnecting clientState = iota
	stateJoined
	stateLeft
)

// Client is one connected participant as seen by the engine. Commands carries
// inbound frames from the transport; Events is the delivery capability the
// transport drains back to the wire.
type Client struct {
	ID   string
	Name string

	Commands chan *Command
	Events   chan *Event

	// gone marks the connection dead before the unregister event lands,
	// so fan-outs can skip it immediately.
	gone atomic.Bool

	// Mutated only on the hub loop.
	typing bool
	state  clientState
}

// NewClient constructs a client with initialized channels. The id becomes the
// session id once the client joins.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
	}
}

// MarkGone flags the connection as no longer able to accept frames.
func (c *Client) MarkGone() { c.gone.Store(true) }

// Alive reports whether frames can still be handed to this connection.
func (c *Client) Alive() bool { return !c.gone.Load() }
