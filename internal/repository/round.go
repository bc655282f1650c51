package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/roshambo-games/roshambo-backend/internal/entity"
)

// RoundRepository archives resolved rounds. The authoritative game state is
// in-memory; the archive is an append-only history per room.
type RoundRepository interface {
	Save(ctx context.Context, record *entity.RoundRecord) error
	ListByRoom(ctx context.Context, roomID string) ([]*entity.RoundRecord, error)
}

type dbRound struct {
	client *redis.Client
}

func NewRoundRepository(client *redis.Client) RoundRepository {
	return &dbRound{
		client: client,
	}
}

func roundsKey(roomID string) string {
	return "room:" + roomID + ":rounds"
}

func (that *dbRound) Save(ctx context.Context, record *entity.RoundRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal round record: %w", err)
	}

	if err = that.client.RPush(ctx, roundsKey(record.RoomID), recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to append round record: %w", err)
	}

	return nil
}

func (that *dbRound) ListByRoom(ctx context.Context, roomID string) ([]*entity.RoundRecord, error) {
	rows, err := that.client.LRange(ctx, roundsKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list round records: %w", err)
	}

	records := make([]*entity.RoundRecord, 0, len(rows))
	for _, row := range rows {
		var record entity.RoundRecord
		if err = json.Unmarshal([]byte(row), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round record: %w", err)
		}

		records = append(records, &record)
	}

	return records, nil
}
