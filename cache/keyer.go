package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives deterministic store keys from an operation class and input.
//
// Contract:
// - Determinism: equal inputs must produce equal keys.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives a store key for the given operation class and input.
	Key(class string, input any) (string, error)
}

// DefaultKeyer hashes the JSON form of the input. encoding/json serializes
// map keys in sorted order, so equal maps hash equally regardless of
// insertion order.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key returns "lkg:<class>:<hash>" where hash is the first 16 hex characters
// of SHA-256 over the input's JSON encoding.
func (k *DefaultKeyer) Key(class string, input any) (string, error) {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("cache: input not serializable: %w", err)
	}

	sum := sha256.Sum256(encoded)
	return fmt.Sprintf("lkg:%s:%s", class, hex.EncodeToString(sum[:8])), nil
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
