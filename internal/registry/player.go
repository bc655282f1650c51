package registry

import (
	"fmt"
	"sync"

	"github.com/roshambo-games/roshambo-backend/internal/apperror"
	"github.com/roshambo-games/roshambo-backend/internal/entity"
)

// PlayerRegistry maps session credentials to player identities and player
// identities to live transports, independent of room membership.
type PlayerRegistry struct {
	mu         sync.RWMutex
	byToken    map[string]*entity.Player
	transports map[string]Transport // player id -> transport
}

func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{
		byToken:    make(map[string]*entity.Player),
		transports: make(map[string]Transport),
	}
}

// Register - binds a freshly issued credential and transport to the player.
func (that *PlayerRegistry) Register(token string, player *entity.Player, transport Transport) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.byToken[token] = player
	that.transports[player.ID] = transport
}

// GetByToken - resolves a session credential back to its player.
func (that *PlayerRegistry) GetByToken(token string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.byToken[token]
	if !ok {
		return nil, fmt.Errorf("%w: unknown credential", apperror.ErrPlayerNotFound)
	}

	return player, nil
}

// BindTransport - last-write-wins transport association for the player.
func (that *PlayerRegistry) BindTransport(player *entity.Player, transport Transport) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.transports[player.ID] = transport
}

func (that *PlayerRegistry) TransportFor(player *entity.Player) (Transport, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	transport, ok := that.transports[player.ID]
	if !ok {
		return nil, fmt.Errorf("%w: player %s", apperror.ErrTransportNotBound, player.ID)
	}

	return transport, nil
}
