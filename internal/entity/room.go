package entity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roshambo-games/roshambo-backend/internal/apperror"
)

// Room is a bounded group of players sharing one game session.
// Players are kept in insertion order and are never removed; membership is
// capped at RequiredPlayers.
type Room struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	RequiredPlayers int       `json:"required_players"`
	Players         []*Player `json:"players"`
}

func NewRoom(name string, requiredPlayers int) *Room {
	return &Room{
		ID:              uuid.NewString(),
		Name:            name,
		RequiredPlayers: requiredPlayers,
		Players:         []*Player{},
	}
}

// AddPlayer - appends a player to the room, preserving the membership cap
// and the one-join-per-player invariant.
func (that *Room) AddPlayer(player *Player) error {
	if that.HasPlayer(player.ID) {
		return fmt.Errorf("%w: player %s", apperror.ErrPlayerAlreadyInRoom, player.ID)
	}

	if len(that.Players) >= that.RequiredPlayers {
		return fmt.Errorf("%w: room %s", apperror.ErrRoomFull, that.ID)
	}

	that.Players = append(that.Players, player)

	return nil
}

func (that *Room) HasPlayer(playerID string) bool {
	for _, player := range that.Players {
		if player.ID == playerID {
			return true
		}
	}

	return false
}

// CanStart - reports whether the required number of players has joined.
func (that *Room) CanStart() bool {
	return len(that.Players) == that.RequiredPlayers
}

// AllPlayersMadeChoice - reports whether every member has chosen this round.
func (that *Room) AllPlayersMadeChoice() bool {
	for _, player := range that.Players {
		if !player.HasChoice() {
			return false
		}
	}

	return true
}

// Winners - определяет победителей текущего раунда.
func (that *Room) Winners() []*Player {
	return DetermineWinners(that.Players)
}

// ResetChoices - clears every member's choice after a round resolves.
func (that *Room) ResetChoices() {
	for _, player := range that.Players {
		player.ResetChoice()
	}
}

// Clone - returns a deep copy safe to read and serialize after the room lock
// is released. Players and their choices are copied, never shared.
func (that *Room) Clone() *Room {
	players := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		copied := &Player{
			ID:   player.ID,
			Name: player.Name,
		}
		if player.Choice != nil {
			choice := *player.Choice
			copied.Choice = &choice
		}

		players = append(players, copied)
	}

	return &Room{
		ID:              that.ID,
		Name:            that.Name,
		RequiredPlayers: that.RequiredPlayers,
		Players:         players,
	}
}

// DetermineWinners - a player wins iff no other participant's choice beats
// theirs. Players without a choice are not participants. With all three
// choices on the table every choice is beaten, so the result is empty.
func DetermineWinners(players []*Player) []*Player {
	var winners []*Player

	for _, player := range players {
		if !player.HasChoice() {
			continue
		}

		beaten := false
		for _, other := range players {
			if other.ID == player.ID || !other.HasChoice() {
				continue
			}

			if other.Choice.Beats(*player.Choice) {
				beaten = true
				break
			}
		}

		if !beaten {
			winners = append(winners, player)
		}
	}

	return winners
}
