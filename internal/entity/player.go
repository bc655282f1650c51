package entity

import (
	"github.com/google/uuid"

	"github.com/roshambo-games/roshambo-backend/internal/apperror"
)

// Player is one participant: a stable identity plus its current round choice.
type Player struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Choice *Choice `json:"choice"`
}

func NewPlayer(name string) *Player {
	return &Player{
		ID:   uuid.NewString(),
		Name: name,
	}
}

// SetChoice - records the player's move for the current round.
// A choice may be set at most once per round.
func (that *Player) SetChoice(choice Choice) error {
	if that.Choice != nil {
		return apperror.ErrChoiceAlreadyMade
	}

	that.Choice = &choice

	return nil
}

func (that *Player) HasChoice() bool {
	return that.Choice != nil
}

// ResetChoice - clears the move so the next round starts clean.
func (that *Player) ResetChoice() {
	that.Choice = nil
}
