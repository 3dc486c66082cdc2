package room

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/campfire-trpg/campfire/internal/config"
	"github.com/campfire-trpg/campfire/internal/types"
)

// Room codes are drawn from upper-case letters and digits.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Manager is the process-wide room registry. It owns code allocation and
// room teardown; everything inside a room is the Room's business.
type Manager struct {
	capacity    int
	codeLength  int
	idleTimeout time.Duration

	rooms map[string]*Room
	mu    sync.RWMutex
}

// NewManager creates the registry and starts the idle-room reaper.
func NewManager(cfg *config.RoomConfig) *Manager {
	m := &Manager{
		capacity:    cfg.Capacity,
		codeLength:  cfg.CodeLength,
		idleTimeout: cfg.IdleTimeoutDuration(),
		rooms:       make(map[string]*Room),
	}

	go m.cleanupLoop()

	return m
}

// CreateRoom allocates a fresh room with the creator as its only member.
// The creator is host and ready by construction, with no character yet.
func (m *Manager) CreateRoom(client types.ClientInterface, name string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := m.generateCode()
	connID := client.GetID()

	r := &Room{
		Code:      code,
		HostID:    connID,
		State:     StateWaiting,
		CreatedAt: time.Now(),
		Players: []*Player{{
			Client: client,
			ConnID: connID,
			Name:   name,
			Ready:  true,
		}},
		capacity: m.capacity,
	}

	m.rooms[code] = r
	client.SetRoom(code)

	log.Printf("🏠 room %s created by %s", code, name)

	return r
}

// GetRoom returns the room with the given code, or nil.
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// Remove deletes the registry entry. Idempotent.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
}

// LeaveRoom removes the client from its current room, resolving host
// succession and destroying the room the moment it empties. The affected
// room and the leave result are returned so the gateway can fan out the
// surviving members' new state.
func (m *Manager) LeaveRoom(client types.ClientInterface) (*Room, LeaveResult) {
	code := client.GetRoom()
	if code == "" {
		return nil, LeaveResult{}
	}

	m.mu.RLock()
	r := m.rooms[code]
	m.mu.RUnlock()
	if r == nil {
		client.SetRoom("")
		return nil, LeaveResult{}
	}

	res := r.Leave(client.GetID())
	client.SetRoom("")

	if res.Emptied {
		m.Remove(code)
		log.Printf("🏠 room %s disbanded", code)
	} else if res.NewHostID != "" {
		log.Printf("👑 room %s host passed to %s", code, res.NewHostID)
	}

	return r, res
}

// ActiveSessionCount returns the number of rooms in the playing state.
func (m *Manager) ActiveSessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, r := range m.rooms {
		if _, state, _ := r.Snapshot(); state == StatePlaying {
			count++
		}
	}
	return count
}

// generateCode allocates a code unused by any live room. The code space
// is large enough that collisions are rare; retry handles them.
// Caller holds m.mu.
func (m *Manager) generateCode() string {
	for {
		code := make([]byte, m.codeLength)
		for i := range code {
			code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		if _, exists := m.rooms[string(code)]; !exists {
			return string(code)
		}
	}
}

// cleanupLoop periodically reaps waiting rooms nobody started.
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

// cleanup removes waiting rooms older than the idle timeout. Playing
// rooms are never reaped; they live until every member leaves.
func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for code, r := range m.rooms {
		_, state, _ := r.Snapshot()
		if state != StateWaiting || now.Sub(r.CreatedAt) <= m.idleTimeout {
			continue
		}

		r.mu.Lock()
		for _, p := range r.Players {
			if p.Client != nil {
				p.Client.SetRoom("")
			}
		}
		r.mu.Unlock()

		delete(m.rooms, code)
		log.Printf("🏠 room %s reaped after %v idle", code, m.idleTimeout)
	}
}
