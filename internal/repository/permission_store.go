package repository

import "sync"

// PermissionStore tracks in-game permission group membership. Adding a player
// to a group they already hold is a no-op, so repeated syncs converge.
type PermissionStore struct {
	mu     sync.RWMutex
	groups map[string]map[string]struct{} // steam ID -> held groups
}

func NewPermissionStore() *PermissionStore {
	return &PermissionStore{
		groups: make(map[string]map[string]struct{}),
	}
}

func (p *PermissionStore) HasGroup(steamID, group string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.groups[steamID][group]
	return ok, nil
}

func (p *PermissionStore) AddToGroup(steamID, group string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.groups[steamID] == nil {
		p.groups[steamID] = make(map[string]struct{})
	}
	p.groups[steamID][group] = struct{}{}
	return nil
}

// GroupsOf returns the groups currently held by a player.
func (p *PermissionStore) GroupsOf(steamID string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, 0, len(p.groups[steamID]))
	for g := range p.groups[steamID] {
		out = append(out, g)
	}
	return out
}
