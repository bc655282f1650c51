package registry

import (
	"fmt"
	"sync"

	"github.com/roshambo-games/roshambo-backend/internal/apperror"
	"github.com/roshambo-games/roshambo-backend/internal/entity"
)

// RoomRegistry owns every room by identifier and knows which transport
// currently serves each room member. It also owns the per-room mutex: every
// reader and writer of a room's mutable state, session protocol and HTTP
// boundary alike, must hold RoomLock(id) around the access.
type RoomRegistry struct {
	mu         sync.RWMutex
	rooms      map[string]*entity.Room
	locks      map[string]*sync.Mutex // room id -> room state lock
	transports map[string]Transport   // player id -> transport
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:      make(map[string]*entity.Room),
		locks:      make(map[string]*sync.Mutex),
		transports: make(map[string]Transport),
	}
}

// Create - allocates a room with a fresh identifier and stores it.
func (that *RoomRegistry) Create(name string, requiredPlayers int) *entity.Room {
	room := entity.NewRoom(name, requiredPlayers)

	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[room.ID] = room
	that.locks[room.ID] = &sync.Mutex{}

	return room
}

// RoomLock - returns the mutex guarding the room's mutable state.
func (that *RoomRegistry) RoomLock(id string) *sync.Mutex {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[id] = lock
	}

	return lock
}

// Snapshot - returns a deep copy of the room taken under its lock, safe to
// serialize while sessions keep mutating the live room.
func (that *RoomRegistry) Snapshot(id string) (*entity.Room, error) {
	room, err := that.Get(id)
	if err != nil {
		return nil, err
	}

	lock := that.RoomLock(id)
	lock.Lock()
	defer lock.Unlock()

	return room.Clone(), nil
}

func (that *RoomRegistry) Get(id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, id)
	}

	return room, nil
}

// RegisterTransport - records which transport serves the player right now.
// Last write wins, which is what a reconnect with a new transport needs.
func (that *RoomRegistry) RegisterTransport(player *entity.Player, transport Transport) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.transports[player.ID] = transport
}

// Transports - returns the transport of every room member in player order.
// A member without a transport is a registry bug, not a user error.
func (that *RoomRegistry) Transports(room *entity.Room) ([]Transport, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	transports := make([]Transport, 0, len(room.Players))
	for _, player := range room.Players {
		transport, ok := that.transports[player.ID]
		if !ok {
			return nil, fmt.Errorf("%w: player %s in room %s", apperror.ErrTransportNotBound, player.ID, room.ID)
		}

		transports = append(transports, transport)
	}

	return transports, nil
}
