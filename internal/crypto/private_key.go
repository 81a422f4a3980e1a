// Package crypto implements the signed message envelope used to
// authenticate every privileged API call, in two trust models: Ed25519
// ("prove who I am") and HMAC-SHA256 ("prove the server issued this").
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// Algorithm identifies one of the two supported envelope algorithms.
type Algorithm string

const (
	AlgoEd25519    Algorithm = "ed25519"
	AlgoHMACSHA256 Algorithm = "hmac-sha256"
)

func (a Algorithm) valid() bool {
	return a == AlgoEd25519 || a == AlgoHMACSHA256
}

// PrivateKey is a secret key for one of the supported algorithms. For
// Ed25519 it holds the 32-byte seed, for HMAC-SHA256 the raw key bytes.
// A PrivateKey is a value: it is handed to the one operation that uses
// it and never persisted.
type PrivateKey struct {
	algo Algorithm
	key  []byte
}

// NewPrivateKey generates a fresh 32-byte key for the given algorithm.
func NewPrivateKey(algo Algorithm) (PrivateKey, error) {
	if !algo.valid() {
		return PrivateKey{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algo)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{algo: algo, key: key}, nil
}

// PrivateKeyFromBytes wraps existing key material. Ed25519 keys must be
// exactly the 32-byte seed; HMAC keys may be any length.
func PrivateKeyFromBytes(algo Algorithm, buf []byte) (PrivateKey, error) {
	if !algo.valid() {
		return PrivateKey{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algo)
	}
	if algo == AlgoEd25519 && len(buf) != ed25519.SeedSize {
		return PrivateKey{}, fmt.Errorf("%w: ed25519 seed must be %d bytes, got %d", ErrInvalidKeyLength, ed25519.SeedSize, len(buf))
	}
	key := make([]byte, len(buf))
	copy(key, buf)
	return PrivateKey{algo: algo, key: key}, nil
}

// Algo returns the key's algorithm tag.
func (k PrivateKey) Algo() Algorithm {
	return k.algo
}

// Key returns the raw key bytes.
func (k PrivateKey) Key() []byte {
	return k.key
}
