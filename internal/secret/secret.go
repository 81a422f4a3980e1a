// Package secret holds the deployment-wide primary secret and derives
// purpose-scoped sub-secrets from it.
package secret

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
)

// Well-known derivation purposes. A new privileged capability must pick
// a new, never-reused label.
const (
	PurposeAdminToken        = "admin_token"
	PurposeInviteMakingToken = "invite_making_token"
	PurposeSigningKey        = "signing_key"
)

// PrimarySecret is the single root secret a deployment fans out into
// independent sub-secrets. It is constructed once at startup and
// immutable afterwards, so it may be shared freely across goroutines.
type PrimarySecret struct {
	secret string
}

// New wraps explicit key material.
func New(secret string) PrimarySecret {
	return PrimarySecret{secret: secret}
}

// NewRandom generates a throwaway secret for this process lifetime.
// Tokens derived from it are unrecoverable after a restart, so this is
// only suitable for development.
func NewRandom() PrimarySecret {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		log.Fatalf("failed to generate random secret: %v", err)
	}
	return PrimarySecret{secret: hex.EncodeToString(buf)}
}

// FromEnvValue builds the primary secret from a configured value,
// substituting a random per-boot secret when none is set.
func FromEnvValue(value string) PrimarySecret {
	if value == "" {
		log.Printf("WARNING: PRIMARY_SECRET not set, using temporary random value; invite and admin tokens will not survive a restart")
		return NewRandom()
	}
	return New(value)
}

// Derive computes the 32-byte sub-secret for a purpose label. It is a
// pure function of (secret, purpose): the same inputs always produce
// the same output, and distinct labels produce independent secrets.
func (s PrimarySecret) Derive(purpose string) []byte {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(purpose))
	return mac.Sum(nil)
}
