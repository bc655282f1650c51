package entity

import "time"

const (
	OutcomeDraw      = "draw"
	OutcomeWin       = "win"
	OutcomeStalemate = "stalemate"
)

// RoundRecord is an archive row describing one resolved round.
type RoundRecord struct {
	RoomID    string            `json:"room_id"`
	Choices   map[string]Choice `json:"choices"`
	WinnerIDs []string          `json:"winner_ids"`
	Outcome   string            `json:"outcome"`
	PlayedAt  time.Time         `json:"played_at"`
}

// NewRoundRecord - snapshots a resolved round of the room.
func NewRoundRecord(room *Room, winners []*Player) *RoundRecord {
	choices := make(map[string]Choice, len(room.Players))
	for _, player := range room.Players {
		if player.HasChoice() {
			choices[player.ID] = *player.Choice
		}
	}

	winnerIDs := make([]string, 0, len(winners))
	for _, winner := range winners {
		winnerIDs = append(winnerIDs, winner.ID)
	}

	outcome := OutcomeWin
	switch {
	case len(winners) == 0:
		outcome = OutcomeStalemate
	case len(winners) == len(room.Players):
		outcome = OutcomeDraw
	}

	return &RoundRecord{
		RoomID:    room.ID,
		Choices:   choices,
		WinnerIDs: winnerIDs,
		Outcome:   outcome,
		PlayedAt:  time.Now().UTC(),
	}
}
