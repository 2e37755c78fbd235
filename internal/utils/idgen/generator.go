package idgen

import (
	"crypto/rand"
	"fmt"
)

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length.
// The random part is lowercase alphanumeric so IDs are safe to embed in URL paths.
func GenerateSecureID(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid id length %d", length)
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := make([]byte, length)
	for i := range bytes {
		encoded[i] = charset[int(bytes[i])%len(charset)]
	}

	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// ConversationID returns a new public conversation identifier.
func ConversationID() (string, error) {
	return GenerateSecureID("conv", 16)
}
