package service

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/roshambo-games/roshambo-backend/internal/entity"
)

// Tokenizer issues session credentials: an opaque, stable token a client
// presents to resume its player identity after a reconnect.
type Tokenizer struct {
	salt string
}

func NewTokenizer(salt string) *Tokenizer {
	return &Tokenizer{
		salt: salt,
	}
}

// Issue - derives the credential from the player id and the process salt.
// The same player always yields the same token for the process lifetime.
func (that *Tokenizer) Issue(player *entity.Player) string {
	sum := sha256.Sum256([]byte(player.ID + that.salt))

	return hex.EncodeToString(sum[:])
}
