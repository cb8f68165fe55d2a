package player

import (
	"sort"
	"sync"
)

// Manager owns one Player per guild.
type Manager struct {
	limit   int
	opts    []Option
	players map[string]*Player
	mu      sync.RWMutex
}

// NewManager creates a manager whose players share the queue limit.
func NewManager(limit int, opts ...Option) *Manager {
	return &Manager{
		limit:   limit,
		opts:    opts,
		players: make(map[string]*Player),
	}
}

// Get returns the guild's player if one exists.
func (m *Manager) Get(guildID string) (*Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[guildID]
	return p, ok
}

// Ensure returns the guild's player, creating it on first use.
func (m *Manager) Ensure(guildID string) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[guildID]; ok {
		return p
	}
	p := New(guildID, m.limit, m.opts...)
	m.players[guildID] = p
	return p
}

// Remove drops the guild's player.
func (m *Manager) Remove(guildID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, guildID)
}

// Guilds lists guilds with a player, sorted.
func (m *Manager) Guilds() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
