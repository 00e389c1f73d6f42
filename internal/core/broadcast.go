package core

// Broadcaster fans events out over a point-in-time registry snapshot. Sessions
// joining or leaving mid-fan-out are neither observed by nor observe that
// fan-out. Delivery is a non-blocking, fire-and-forget send: dead or slow
// consumers are skipped silently, never retried, and never surface as errors.
type Broadcaster struct {
	registry *Registry
}

// NewBroadcaster constructs a broadcaster over the given registry.
func NewBroadcaster(reg *Registry) *Broadcaster {
	return &Broadcaster{registry: reg}
}

// Broadcast sends the event to every live session except the excluded ids.
func (b *Broadcaster) Broadcast(ev *Event, exclude ...string) {
	var skip map[string]struct{}
	if len(exclude) > 0 {
		skip = make(map[string]struct{}, len(exclude))
		for _, id := range exclude {
			skip[id] = struct{}{}
		}
	}
	for _, c := range b.registry.Snapshot() {
		if skip != nil {
			if _, excluded := skip[c.ID]; excluded {
				continue
			}
		}
		b.deliver(c, ev)
	}
}

// SendTo delivers an event to a single session. Absent ids are a no-op.
func (b *Broadcaster) SendTo(id string, ev *Event) {
	if c := b.registry.Lookup(id); c != nil {
		b.deliver(c, ev)
	}
}

func (b *Broadcaster) deliver(c *Client, ev *Event) {
	if !c.Alive() {
		return
	}
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
