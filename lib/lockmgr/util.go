package lockmgr

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	ownerIDBytes = 32 // 256 bit
)

// generateOwnerID creates a new unique owner ID
func generateOwnerID() ([]byte, error) {
	randomBytes := make([]byte, ownerIDBytes)
	_, err := rand.Read(randomBytes)
	return randomBytes, err
}

func formatOwnerID(id []byte) string {
	return hex.EncodeToString(id)
}
