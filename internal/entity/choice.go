package entity

import (
	"fmt"

	"github.com/roshambo-games/roshambo-backend/internal/apperror"
)

// Choice is one of the three cyclic-dominance game moves.
type Choice string

const (
	ChoiceRock     Choice = "rock"
	ChoicePaper    Choice = "paper"
	ChoiceScissors Choice = "scissors"
)

// beatenBy maps every choice to the single choice that dominates it.
var beatenBy = map[Choice]Choice{
	ChoiceRock:     ChoicePaper,
	ChoicePaper:    ChoiceScissors,
	ChoiceScissors: ChoiceRock,
}

// ParseChoice - converts a raw client token into a Choice.
func ParseChoice(raw string) (Choice, error) {
	choice := Choice(raw)
	if _, ok := beatenBy[choice]; !ok {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidChoice, raw)
	}

	return choice, nil
}

// Beats - reports whether the choice dominates the other one.
func (that Choice) Beats(other Choice) bool {
	return beatenBy[other] == that
}
