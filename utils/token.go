package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewSessionToken returns an opaque random session token. uuid.NewRandom
// reads from crypto/rand; the dashes are dropped so the value carries no
// visible structure.
func NewSessionToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}
