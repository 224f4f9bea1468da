// internal/game/registry.go
package game

import (
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
)

var (
	ErrAlreadyQueued = errors.New("player already queued")
	ErrAlreadyInRoom = errors.New("player already in a room")
)

// Location says where a player currently is. A player id is a member of
// at most one of {waiting queue, active room} at any instant.
type Location int

const (
	LocationNone Location = iota
	LocationWaiting
	LocationRoom
)

// WaitingEntry is a queued, not-yet-matched join intent. It lives only in
// a registry queue and is removed the moment it is matched or the player
// disconnects.
type WaitingEntry struct {
	PlayerID string
	Conn     *websocket.Conn
	Mode     Mode
	JoinedAt time.Time
}

type playerSlot struct {
	loc  Location
	mode Mode
	room *Room
}

// Registry is the single source of truth for "where is this player":
// per-mode FIFO waiting queues, the active room set, and a direct
// playerId->room index so control frames never scan all rooms. All
// operations are atomic with respect to a single player id.
type Registry struct {
	mu       sync.Mutex
	waiting  map[Mode][]*WaitingEntry
	byPlayer map[string]playerSlot
	rooms    map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		waiting:  make(map[Mode][]*WaitingEntry),
		byPlayer: make(map[string]playerSlot),
		rooms:    make(map[string]*Room),
	}
}

// RegisterWaiting appends the entry to its mode's queue. A player already
// queued or already seated is rejected, never silently overwritten.
func (r *Registry) RegisterWaiting(e *WaitingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkFreeLocked(e.PlayerID); err != nil {
		return err
	}
	if e.JoinedAt.IsZero() {
		e.JoinedAt = time.Now()
	}
	r.waiting[e.Mode] = append(r.waiting[e.Mode], e)
	r.byPlayer[e.PlayerID] = playerSlot{loc: LocationWaiting, mode: e.Mode}
	return nil
}

// MarkWaiting reserves a player id without a queue entry. Used for invite
// binds: the player waits on a pre-declared room, not in the open queue.
func (r *Registry) MarkWaiting(playerID string, mode Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkFreeLocked(playerID); err != nil {
		return err
	}
	r.byPlayer[playerID] = playerSlot{loc: LocationWaiting, mode: mode}
	return nil
}

func (r *Registry) checkFreeLocked(playerID string) error {
	if slot, ok := r.byPlayer[playerID]; ok {
		if slot.loc == LocationWaiting {
			return ErrAlreadyQueued
		}
		return ErrAlreadyInRoom
	}
	return nil
}

// WaitingCount returns the queue length for a mode.
func (r *Registry) WaitingCount(mode Mode) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiting[mode])
}

// PopWaiting removes and returns the n oldest entries for a mode, in
// arrival order. The popped players stay reserved until PromoteToRoom or
// Release.
func (r *Registry) PopWaiting(mode Mode, n int) []*WaitingEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := r.waiting[mode]
	if len(q) < n {
		return nil
	}
	popped := q[:n]
	r.waiting[mode] = q[n:]
	return popped
}

// PromoteToRoom rebinds a player from waiting to an active room.
func (r *Registry) PromoteToRoom(playerID string, room *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPlayer[playerID] = playerSlot{loc: LocationRoom, room: room}
}

// Release drops whatever binding the player holds and returns what it
// was. Waiting entries are removed from their queue as well.
func (r *Registry) Release(playerID string) Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.byPlayer[playerID]
	if !ok {
		return LocationNone
	}
	if slot.loc == LocationWaiting {
		q := r.waiting[slot.mode]
		for i, e := range q {
			if e.PlayerID == playerID {
				r.waiting[slot.mode] = append(q[:i], q[i+1:]...)
				break
			}
		}
	}
	delete(r.byPlayer, playerID)
	return slot.loc
}

// Locate reports where a player currently is.
func (r *Registry) Locate(playerID string) (Location, Mode, *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.byPlayer[playerID]
	if !ok {
		return LocationNone, "", nil
	}
	return slot.loc, slot.mode, slot.room
}

// RoomByPlayer is the direct playerId->room index used by control-frame
// routing.
func (r *Registry) RoomByPlayer(playerID string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byPlayer[playerID].room
}

// AddRoom registers an active room.
func (r *Registry) AddRoom(room *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = room
}

// RemoveRoom drops a room the instant its seat collection becomes empty.
func (r *Registry) RemoveRoom(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
}

// Room returns a registered room by id.
func (r *Registry) Room(id string) (*Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	return room, ok
}

// RoomCount returns the number of active rooms.
func (r *Registry) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
