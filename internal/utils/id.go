package utils

import "github.com/google/uuid"

// GenerateID returns a random 128-bit identifier. Document and chunk
// identities are server-generated, never user-supplied.
func GenerateID() string {
	return uuid.NewString()
}
