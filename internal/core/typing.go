package core

import "fmt"

// TypingTracker holds the set of sessions whose typing flag is raised. The
// engine never expires flags on its own: clearing is driven by a typing-stop
// frame, by the session sending a message, or by disconnect. A client that
// never signals stop keeps its flag until it goes away.
type TypingTracker struct {
	active map[*Client]struct{}
}

// NewTypingTracker constructs a tracker with nobody typing.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{active: make(map[*Client]struct{})}
}

// Start raises the client's typing flag. Returns false when the flag was
// already raised, in which case no roster broadcast is due.
func (t *TypingTracker) Start(c *Client) bool {
	if c.typing {
		return false
	}
	c.typing = true
	t.active[c] = struct{}{}
	return true
}

// Stop clears the client's typing flag. Returns false when it was already
// clear.
func (t *TypingTracker) Stop(c *Client) bool {
	if !c.typing {
		return false
	}
	c.typing = false
	delete(t.active, c)
	return true
}

// Names derives the current typing roster in registry join order. The roster
// includes everyone with a raised flag; excluding the viewer is a presentation
// concern handled on read, see WithoutName.
func (t *TypingTracker) Names(reg *Registry) []string {
	names := make([]string, 0, len(t.active))
	for _, c := range reg.Snapshot() {
		if c.typing {
			names = append(names, c.Name)
		}
	}
	return names
}

// WithoutName filters a typing roster down to everyone but the given viewer.
func WithoutName(names []string, self string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != self {
			out = append(out, n)
		}
	}
	return out
}

// FormatTypingRoster renders the conventional indicator line for a roster that
// has already been filtered for the viewer. Empty when nobody is typing.
func FormatTypingRoster(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0] + " is typing..."
	case 2:
		return names[0] + " and " + names[1] + " are typing..."
	default:
		return fmt.Sprintf("%d people are typing...", len(names))
	}
}
