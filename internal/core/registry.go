package core

import "strings"

// Registry tracks joined sessions by id. It is mutated only from the hub loop,
// so no locking is needed; Snapshot returns point-in-time copies that stay
// valid while the loop moves on.
type Registry struct {
	byID  map[string]*Client
	order []*Client // join order
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Client)}
}

// Add inserts a client under its id. Adding an id that is already present is
// a no-op; ids are never reused across concurrently-live sessions.
func (r *Registry) Add(c *Client) {
	if _, ok := r.byID[c.ID]; ok {
		return
	}
	r.byID[c.ID] = c
	r.order = append(r.order, c)
}

// Remove deletes the session with the given id. Removing an absent id is a
// no-op, not an error.
func (r *Registry) Remove(id string) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, c := range r.order {
		if c.ID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the session with the given id, or nil if absent.
func (r *Registry) Lookup(id string) *Client {
	return r.byID[id]
}

// FindByName returns the first session in join order whose display name
// matches case-insensitively. Display names are not unique; when two sessions
// share a name, resolution is best-effort first-match.
func (r *Registry) FindByName(name string) *Client {
	for _, c := range r.order {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Snapshot returns a stable join-ordered copy of the current sessions.
func (r *Registry) Snapshot() []*Client {
	out := make([]*Client, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of joined sessions.
func (r *Registry) Len() int {
	return len(r.byID)
}
