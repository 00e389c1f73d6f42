package core

// HistoryLimit caps the shared message buffer. Once full, the oldest entry is
// evicted for every new one.
const HistoryLimit = 50

// History is the bounded, ordered log of broadcast messages, replayed to
// newly joined sessions. Direct messages bypass it entirely.
type History struct {
	limit    int
	messages []Message
}

// NewHistory constructs an empty buffer with the given capacity.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Append adds a message, evicting the oldest entry when at capacity.
func (h *History) Append(msg Message) {
	h.messages = append(h.messages, msg)
	if len(h.messages) > h.limit {
		h.messages = h.messages[1:]
	}
}

// All returns the current contents, oldest first, as a copy safe to hand out.
func (h *History) All() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of buffered messages.
func (h *History) Len() int {
	return len(h.messages)
}
