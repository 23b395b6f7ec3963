package repository

import "sync"

// Roster is the set of players currently on the game server, maintained by
// join/leave notifications from the game engine.
type Roster struct {
	mu      sync.RWMutex
	players map[string]string // steam ID -> display name
}

func NewRoster() *Roster {
	return &Roster{
		players: make(map[string]string),
	}
}

func (r *Roster) Join(steamID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[steamID] = name
}

func (r *Roster) Leave(steamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, steamID)
}

func (r *Roster) IsOnline(steamID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.players[steamID]
	return ok
}

func (r *Roster) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
