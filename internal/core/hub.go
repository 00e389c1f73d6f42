package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// anonymousName is used when a join frame carries no display name.
const anonymousName = "Anonymous"

// Stats is a point-in-time snapshot of engine counters, answered through the
// hub loop so the numbers are mutually consistent.
type Stats struct {
	Online   []string // display names of joined sessions, join order
	Messages int      // current history length
}

// Hub owns the registry, history and typing state and serializes every
// mutation on a single event loop. Transports hand it clients; each client's
// Commands channel is funneled into the loop, so handling one inbound frame is
// atomic with respect to all shared state. Nothing here blocks on I/O: event
// delivery is fire-and-forget, so a hung connection never stalls the loop.
type Hub struct {
	registry  *Registry
	history   *History
	typing    *TypingTracker
	broadcast *Broadcaster
	log       *zerolog.Logger

	unregister chan *Client
	frames     chan inboundFrame
	stats      chan chan Stats
}

type inboundFrame struct {
	client *Client
	cmd    *Command
}

// NewHub constructs the engine with empty state. A nil logger is replaced by
// a no-op one, which the tests rely on.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	reg := NewRegistry()
	return &Hub{
		registry:   reg,
		history:    NewHistory(HistoryLimit),
		typing:     NewTypingTracker(),
		broadcast:  NewBroadcaster(reg),
		log:        logger,
		unregister: make(chan *Client),
		frames:     make(chan inboundFrame, 64),
		stats:      make(chan chan Stats),
	}
}

// RegisterClient attaches a new connection and starts funneling its commands
// into the loop. The client is not part of the chat until its join frame is
// processed.
func (h *Hub) RegisterClient(c *Client) {
	h.log.Debug().Str("session_id", c.ID).Msg("connection attached")
	go h.pump(c)
}

// UnregisterClient detaches a connection, typically on transport close. The
// caller must not send further commands for this client. Safe for clients
// that never joined; unregistering twice is caught by the registry being
// idempotent, but closing Commands twice is not, so transports call this from
// exactly one place.
func (h *Hub) UnregisterClient(c *Client) {
	c.MarkGone()
	close(c.Commands)
	h.unregister <- c
}

func (h *Hub) pump(c *Client) {
	for cmd := range c.Commands {
		h.frames <- inboundFrame{client: c, cmd: cmd}
	}
}

// Run drives the engine until the context is canceled. All shared state is
// touched only from this goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case f := <-h.frames:
			h.dispatch(f.client, f.cmd)
		case reply := <-h.stats:
			reply <- h.snapshotStats()
		case <-ctx.Done():
			h.broadcast.Broadcast(h.systemEvent("Server shutting down"))
			return
		}
	}
}

// Stats answers through the loop; the context bounds the wait when the loop
// is not running.
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case h.stats <- reply:
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	if c.state == stateLeft {
		return
	}
	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd.Name)
	case CommandSendMessage:
		h.handleMessage(c, cmd.Text)
	case CommandTypingStart:
		h.handleTyping(c, true)
	case CommandTypingStop:
		h.handleTyping(c, false)
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Str("session_id", c.ID).Msg("unknown command kind dropped")
	}
}

func (h *Hub) handleJoin(c *Client, name string) {
	if c.state != stateConnecting {
		h.log.Debug().Str("session_id", c.ID).Msg("duplicate join ignored")
		return
	}
	if name == "" {
		name = anonymousName
	}
	c.Name = name
	c.state = stateJoined
	h.registry.Add(c)

	h.log.Info().Str("session_id", c.ID).Str("name", name).Msg("session joined")

	// Welcome and history replay go to the joiner only, before any live frame.
	h.broadcast.SendTo(c.ID, &Event{Kind: EventWelcome, SessionID: c.ID, Name: name})
	h.broadcast.SendTo(c.ID, &Event{Kind: EventHistory, Messages: h.history.All()})

	h.broadcast.Broadcast(h.systemEvent(name + " joined the chat"))
	h.broadcastRoster()
}

func (h *Hub) handleMessage(c *Client, text string) {
	if c.state != stateJoined {
		// Out-of-order frame from a client that never joined.
		h.log.Debug().Str("session_id", c.ID).Msg("message before join ignored")
		return
	}

	route := ClassifyMessage(text, h.registry)
	switch route.Kind {
	case RouteDirect:
		msg := Message{
			Sender:    c.Name,
			Text:      text,
			CreatedAt: time.Now(),
			Direct:    true,
			Recipient: route.Target,
		}
		ev := &Event{Kind: EventMessage, Message: msg}
		h.broadcast.SendTo(route.Recipient.ID, ev)
		if route.Recipient.ID != c.ID {
			// Echo so the sender's own UI can render it.
			h.broadcast.SendTo(c.ID, ev)
		}
		h.log.Debug().Str("from", c.Name).Str("to", route.Target).Msg("direct message delivered")
	case RouteUnresolved:
		h.broadcast.SendTo(c.ID, &Event{
			Kind:  EventError,
			Error: &EngineError{Code: ErrCodeUserNotFound, Message: "User @" + route.Target + " not found"},
		})
		h.log.Debug().Str("from", c.Name).Str("target", route.Target).Msg("mention target not found")
	case RouteBroadcast:
		msg := Message{Sender: c.Name, Text: text, CreatedAt: time.Now()}
		h.history.Append(msg)
		h.broadcast.Broadcast(&Event{Kind: EventMessage, Message: msg})
	}

	// Sending clears the typing flag implicitly.
	if h.typing.Stop(c) {
		h.broadcastTyping()
	}
}

func (h *Hub) handleTyping(c *Client, start bool) {
	if c.state != stateJoined {
		return
	}
	var changed bool
	if start {
		changed = h.typing.Start(c)
	} else {
		changed = h.typing.Stop(c)
	}
	if changed {
		h.broadcastTyping()
	}
}

func (h *Hub) handleDisconnect(c *Client) {
	joined := c.state == stateJoined
	c.state = stateLeft
	if !joined {
		return
	}

	// Force the typing flag idle; the leave flow below covers the roster, so
	// no dedicated typing broadcast is sent here.
	h.typing.Stop(c)
	h.registry.Remove(c.ID)

	h.log.Info().Str("session_id", c.ID).Str("name", c.Name).Msg("session left")

	h.broadcast.Broadcast(h.systemEvent(c.Name + " left the chat"))
	h.broadcastRoster()
}

func (h *Hub) broadcastRoster() {
	snapshot := h.registry.Snapshot()
	roster := make([]RosterEntry, 0, len(snapshot))
	for _, c := range snapshot {
		roster = append(roster, RosterEntry{SessionID: c.ID, Name: c.Name})
	}
	h.broadcast.Broadcast(&Event{Kind: EventRoster, Roster: roster})
}

func (h *Hub) broadcastTyping() {
	h.broadcast.Broadcast(&Event{Kind: EventTypingRoster, Typing: h.typing.Names(h.registry)})
}

func (h *Hub) systemEvent(text string) *Event {
	return &Event{Kind: EventSystem, Text: text, Timestamp: time.Now()}
}

func (h *Hub) snapshotStats() Stats {
	snapshot := h.registry.Snapshot()
	online := make([]string, 0, len(snapshot))
	for _, c := range snapshot {
		online = append(online, c.Name)
	}
	return Stats{Online: online, Messages: h.history.Len()}
}
