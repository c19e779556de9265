// Package idgen generates session identifiers.
package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// ID type prefixes.
const (
	PrefixSessionID = "sess_"
)

// Generator produces unique identifiers.
type Generator interface {
	NewSessionID() string
}

// UUIDGenerator generates prefixed UUIDv4 identifiers.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a UUID-backed generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewSessionID returns a fresh session identifier.
func (g *UUIDGenerator) NewSessionID() string {
	return PrefixSessionID + uuid.NewString()
}

// IsSessionID reports whether id carries the session prefix.
func IsSessionID(id string) bool {
	return strings.HasPrefix(id, PrefixSessionID)
}
