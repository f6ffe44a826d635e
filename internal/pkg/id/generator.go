package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

func SessionID() string { return uuid.New().String() }

func SecureToken(length int) string {
	bytes := make([]byte, length)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
