// Package room holds the authoritative state of one co-op session: the
// ordered member list, readiness, host authority, turn pointer and chat
// transcript. All mutations go through Room methods, each of which holds
// the room lock for its whole read-modify-write sequence.
//
// The chat transcript is an opaque blob maintained client-side and pushed
// wholesale on restore; it grows without bound for the life of the room.
package room

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/campfire-trpg/campfire/internal/apperrors"
	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/types"
)

// Player is one member slot. Client and ConnID are empty while the slot
// is unbound (restored from a snapshot, owner not yet reconnected); Name
// is the reconciliation key for rebinding.
type Player struct {
	Client    types.ClientInterface
	ConnID    string
	Name      string
	Ready     bool
	Character json.RawMessage
}

// Room is one session's authoritative state. Member order is significant:
// it defines turn order and host succession.
type Room struct {
	Code      string
	HostID    string
	State     State
	TurnIndex int
	ChatHTML  string
	CreatedAt time.Time
	Players   []*Player

	capacity int
	mu       sync.RWMutex
}

// LeaveResult reports what a leave changed.
type LeaveResult struct {
	Left      bool   // the connection was a member and has been removed
	Emptied   bool   // the room has no members left
	NewHostID string // set when host authority transferred
}

// Join adds a connection to the room. It first tries to reconcile the
// connection into an unbound slot with a matching name (how a
// disconnected player rejoins mid-session); only appending a brand-new
// member is gated by the waiting-state and capacity rules. A join with a
// connection id that is already a member is a silent no-op.
func (r *Room) Join(client types.ClientInterface, name string) (JoinOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := client.GetID()
	for _, p := range r.Players {
		if p.ConnID == connID {
			return JoinIgnored, nil
		}
	}

	// Slot reconciliation by name
	for _, p := range r.Players {
		if p.ConnID == "" && p.Name == name {
			p.ConnID = connID
			p.Client = client
			// A room whose members are all unbound slots has no host;
			// the first connection to bind one inherits the authority.
			if r.HostID == "" {
				r.HostID = connID
			}
			client.SetRoom(r.Code)
			return JoinRebound, nil
		}
	}

	if r.State != StateWaiting {
		return 0, apperrors.ErrGameStarted
	}
	if len(r.Players) >= r.capacity {
		return 0, apperrors.ErrRoomFull
	}

	r.Players = append(r.Players, &Player{
		Client: client,
		ConnID: connID,
		Name:   name,
		Ready:  false,
	})
	if r.HostID == "" {
		r.HostID = connID
	}
	client.SetRoom(r.Code)
	return JoinAdded, nil
}

// Leave removes the member with the given connection id. When the host
// leaves and members remain, host authority transfers to the first bound
// member of the post-removal list; unbound restored slots are skipped so
// the room is never left hostless while a live member exists.
func (r *Room) Leave(connID string) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.Players {
		if p.ConnID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return LeaveResult{}
	}

	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	res := LeaveResult{Left: true}
	if len(r.Players) == 0 {
		res.Emptied = true
		return res
	}

	if r.HostID == connID {
		r.HostID = r.Players[0].ConnID
		for _, p := range r.Players {
			if p.ConnID != "" {
				r.HostID = p.ConnID
				break
			}
		}
		res.NewHostID = r.HostID
	}

	// Keep the turn pointer in range after the list shrank
	if r.TurnIndex >= len(r.Players) {
		r.TurnIndex = 0
	}

	return res
}

// UpdateCharacter stores the member's character sheet and marks the
// member ready. Submitting a character is what readiness means for
// everyone but the host. No-op when the connection is not a member.
func (r *Room) UpdateCharacter(connID string, character json.RawMessage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.Players {
		if p.ConnID == connID {
			p.Character = character
			p.Ready = true
			return true
		}
	}
	return false
}

// Start moves the room to playing with the turn pointer at 0. Non-host
// requests are ignored without any state change; an unready member
// rejects the start.
func (r *Room) Start(connID string) (StartOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if connID != r.HostID {
		return StartIgnored, nil
	}
	for _, p := range r.Players {
		if !p.Ready {
			return 0, apperrors.ErrNotAllReady
		}
	}

	r.State = StatePlaying
	r.TurnIndex = 0
	return Started, nil
}

// AdvanceTurn moves the turn pointer to the next member in list order and
// returns the new index. It deliberately does not check whose turn it is;
// the group is trusted to pass the turn cooperatively. A caller may hold
// a room whose last member has already left, so an empty member list is a
// no-op rather than a divide by zero.
func (r *Room) AdvanceTurn() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Players) == 0 {
		return r.TurnIndex
	}

	r.TurnIndex = (r.TurnIndex + 1) % len(r.Players)
	return r.TurnIndex
}

// Restore replaces the member list with the snapshot's players, all
// marked ready. Only the first slot is bound, to the restoring
// connection (the prior host reopening play); the remaining slots stay
// unbound until their owners rejoin by name. Non-host requests are
// ignored without any state change.
func (r *Room) Restore(client types.ClientInterface, slots []protocol.RestoredSlot, turnIndex int, chatHTML string, startPlaying bool) RestoreOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client.GetID() != r.HostID {
		return RestoreIgnored
	}

	players := make([]*Player, len(slots))
	for i, s := range slots {
		players[i] = &Player{
			Name:      s.Name,
			Ready:     true,
			Character: s.Character,
		}
		if i == 0 {
			players[i].Client = client
			players[i].ConnID = client.GetID()
		}
	}

	r.Players = players
	r.TurnIndex = turnIndex
	r.ChatHTML = chatHTML
	if startPlaying {
		r.State = StatePlaying
	} else {
		r.State = StateWaiting
	}
	return Restored
}

// HasMember reports whether the connection id belongs to a member.
func (r *Room) HasMember(connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.Players {
		if p.ConnID == connID {
			return true
		}
	}
	return false
}

// PlayerInfos returns the public view of the member list, in order.
func (r *Room) PlayerInfos() []protocol.PlayerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]protocol.PlayerInfo, len(r.Players))
	for i, p := range r.Players {
		infos[i] = protocol.PlayerInfo{
			ConnID:    p.ConnID,
			Name:      p.Name,
			IsReady:   p.Ready,
			Character: p.Character,
		}
	}
	return infos
}

// Snapshot returns the host id, state and turn index under one lock.
func (r *Room) Snapshot() (hostID string, state State, turnIndex int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.HostID, r.State, r.TurnIndex
}

// Transcript returns the last transcript value the room was given.
func (r *Room) Transcript() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ChatHTML
}

// Broadcast sends a message to every connected member.
func (r *Room) Broadcast(msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.Players {
		if p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// BroadcastExcept sends a message to every connected member but one.
func (r *Room) BroadcastExcept(excludeID string, msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.Players {
		if p.Client != nil && p.ConnID != excludeID {
			p.Client.SendMessage(msg)
		}
	}
}
