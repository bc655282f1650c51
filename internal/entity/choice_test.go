package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshambo-games/roshambo-backend/internal/apperror"
)

func TestParseChoice(t *testing.T) {
	t.Run("Parses every valid token", func(t *testing.T) {
		// Given: the three valid tokens
		for _, token := range []string{"rock", "paper", "scissors"} {
			// When: parsing the token
			choice, err := ParseChoice(token)

			// Then: the choice matches the token
			require.NoError(t, err)
			assert.Equal(t, Choice(token), choice)
		}
	})

	t.Run("Rejects an unknown token", func(t *testing.T) {
		// When: parsing garbage input
		_, err := ParseChoice("lizard")

		// Then: it should return ErrInvalidChoice
		assert.ErrorIs(t, err, apperror.ErrInvalidChoice)
	})

	t.Run("Rejects an empty token", func(t *testing.T) {
		_, err := ParseChoice("")

		assert.ErrorIs(t, err, apperror.ErrInvalidChoice)
	})
}

func TestChoice_Beats(t *testing.T) {
	t.Run("Dominance is cyclic", func(t *testing.T) {
		// Then: rock > scissors > paper > rock
		assert.True(t, ChoiceRock.Beats(ChoiceScissors))
		assert.True(t, ChoiceScissors.Beats(ChoicePaper))
		assert.True(t, ChoicePaper.Beats(ChoiceRock))
	})

	t.Run("Each choice loses to exactly one other", func(t *testing.T) {
		assert.False(t, ChoiceScissors.Beats(ChoiceRock))
		assert.False(t, ChoicePaper.Beats(ChoiceScissors))
		assert.False(t, ChoiceRock.Beats(ChoicePaper))
	})

	t.Run("A choice never beats itself", func(t *testing.T) {
		for _, choice := range []Choice{ChoiceRock, ChoicePaper, ChoiceScissors} {
			assert.False(t, choice.Beats(choice))
		}
	})
}
