package portfolio

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tradeIDBytes is the size of a trade id before hex encoding (256 bits).
const tradeIDBytes = 32

// IDGenerator returns a new unique trade identifier.
type IDGenerator func() (string, error)

// NewTradeID returns 32 random bytes from the system CSPRNG, hex encoded.
// It is safe for concurrent use.
func NewTradeID() (string, error) {
	buf := make([]byte, tradeIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
