package catalog

import (
	"crypto/sha256"
	"encoding/base64"
)

// idSeparator joins message and context before hashing.
const idSeparator = "\x1f"

// GenerateID derives the id of a message without an explicit id: the first
// six characters of the base64 SHA-256 of message and context.
func GenerateID(message, context string) string {
	sum := sha256.Sum256([]byte(message + idSeparator + context))
	return base64.StdEncoding.EncodeToString(sum[:])[:6]
}

// IsGeneratedID reports whether id is the generated id of m, i.e. m was
// not given an explicit id.
func IsGeneratedID(id string, m Message) bool {
	return m.Message != "" && id == GenerateID(m.Message, m.Context)
}
