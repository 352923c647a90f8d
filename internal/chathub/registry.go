package chathub

import "faithlink/backend/internal/models"

// Registry is the process-local map of connected identities and room
// memberships. It is mutated only from the hub goroutine, so it carries
// no lock. It is not a source of truth: a restart empties it and clients
// rebuild it as they reconnect (presence is best-effort by design).
type Registry struct {
	clients map[string]Client            // identity -> live connection
	rooms   map[string]map[string]Client // room -> identity -> connection
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
		rooms:   make(map[string]map[string]Client),
	}
}

// Register binds the client's identity to it, last-write-wins. If the
// identity already had a connection, that previous client is removed from
// every room and returned so the caller can close it.
func (r *Registry) Register(c Client) (prev Client) {
	id := c.GetUserID()
	if old, ok := r.clients[id]; ok && old != c {
		r.removeFromRooms(id, old)
		prev = old
	}
	r.clients[id] = c
	return prev
}

// Unregister removes the client if it still owns its identity binding.
// A stale disconnect from a connection that was already replaced is a
// no-op and returns false.
func (r *Registry) Unregister(c Client) bool {
	id := c.GetUserID()
	if current, ok := r.clients[id]; !ok || current != c {
		return false
	}
	delete(r.clients, id)
	r.removeFromRooms(id, c)
	return true
}

// Lookup returns the live connection bound to an identity, if any.
func (r *Registry) Lookup(id string) (Client, bool) {
	c, ok := r.clients[id]
	return c, ok
}

func (r *Registry) JoinRoom(roomID string, c Client) {
	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[string]Client)
		r.rooms[roomID] = members
	}
	members[c.GetUserID()] = c
}

// InRoom reports whether the identity's current connection is in the room.
func (r *Registry) InRoom(roomID, id string) bool {
	members, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	_, ok = members[id]
	return ok
}

// RoomMembers returns the connections currently in a room, skipping the
// excluded identity if non-empty.
func (r *Registry) RoomMembers(roomID, excludeID string) []Client {
	members := r.rooms[roomID]
	out := make([]Client, 0, len(members))
	for id, c := range members {
		if excludeID != "" && id == excludeID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// All returns every connected client, skipping the excluded identity.
func (r *Registry) All(excludeID string) []Client {
	out := make([]Client, 0, len(r.clients))
	for id, c := range r.clients {
		if excludeID != "" && id == excludeID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Len returns the number of connected identities.
func (r *Registry) Len() int {
	return len(r.clients)
}

func (r *Registry) removeFromRooms(id string, c Client) {
	for roomID, members := range r.rooms {
		if members[id] == c {
			delete(members, id)
		}
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
}

// Resolve picks the delivery targets for a fanout envelope. The returned
// slice only covers connections in this process; other processes resolve
// the same envelope against their own registries.
func (r *Registry) Resolve(f models.Fanout) []Client {
	switch f.Scope {
	case models.ScopeRoom:
		return r.RoomMembers(f.Target, f.ExcludeID)
	case models.ScopeIdentity:
		if f.Target == f.ExcludeID {
			return nil
		}
		if c, ok := r.Lookup(f.Target); ok {
			return []Client{c}
		}
		return nil
	case models.ScopeAdmins:
		return r.RoomMembers(AdminsRoom, f.ExcludeID)
	case models.ScopeGlobal:
		return r.All(f.ExcludeID)
	}
	return nil
}
