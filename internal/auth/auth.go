// Package auth implements the privileged-access primitives of the API:
// operator tokens derived from the primary secret, the stateless invite
// protocol for account registration, and credential rotation.
package auth

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/metastable-void/alarkhabil-server/internal/crypto"
	"github.com/metastable-void/alarkhabil-server/internal/secret"
	"github.com/metastable-void/alarkhabil-server/internal/store"
	"github.com/metastable-void/alarkhabil-server/internal/validate"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInvite = errors.New("invalid invite")
)

// inviteCommand discriminates invite payloads from any other message
// the signing key might ever sign.
const inviteCommand = "registration_invite"

// Invite is the payload carried inside a signed invite token.
type Invite struct {
	Command string `json:"command"`
	UUID    string `json:"uuid"`
}

// Service issues and checks all privileged credentials. It holds no
// mutable state of its own; invites are validated purely from their
// signature plus the account table, so the service is safe for
// concurrent use.
type Service struct {
	store  store.Store
	secret secret.PrimarySecret
}

func NewService(st store.Store, sec secret.PrimarySecret) *Service {
	return &Service{store: st, secret: sec}
}

// AdminToken returns the hex operator token gating admin endpoints.
func (s *Service) AdminToken() string {
	return hex.EncodeToString(s.secret.Derive(secret.PurposeAdminToken))
}

// InviteMakingToken returns the hex operator token gating invite
// creation.
func (s *Service) InviteMakingToken() string {
	return hex.EncodeToString(s.secret.Derive(secret.PurposeInviteMakingToken))
}

// VerifyAdminToken checks a presented token against the derived admin
// token in constant time.
func (s *Service) VerifyAdminToken(token string) error {
	return verifyToken(token, s.AdminToken())
}

// VerifyInviteMakingToken checks a presented token against the derived
// invite-making token in constant time.
func (s *Service) VerifyInviteMakingToken(token string) error {
	return verifyToken(token, s.InviteMakingToken())
}

func verifyToken(presented, expected string) error {
	if subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// NewInvite mints a single-use registration invite: a fresh v4 uuid,
// wrapped in a command-tagged payload, HMAC-signed with the derived
// signing key, and base64-encoded for transport.
func (s *Service) NewInvite() (string, error) {
	payload, err := json.Marshal(Invite{
		Command: inviteCommand,
		UUID:    uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	key, err := crypto.PrivateKeyFromBytes(crypto.AlgoHMACSHA256, s.secret.Derive(secret.PurposeSigningKey))
	if err != nil {
		return "", err
	}
	msg, err := crypto.Sign(key, payload)
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encoded), nil
}

// RedeemInvite validates an invite token and registers a new author
// under the invite's uuid, binding the given public key as its first
// credential. The uuid doubles as the single-use marker: a second
// redemption of the same invite hits the existing account row and
// fails with store.ErrAccountExists.
func (s *Service) RedeemInvite(ctx context.Context, inviteToken, name string, registeredDate int64, keyAlgo crypto.Algorithm, publicKey []byte) (string, error) {
	inv, err := s.checkInvite(inviteToken)
	if err != nil {
		return "", err
	}
	if len(name) > validate.MaxItemNameSize {
		return "", fmt.Errorf("%w (max %d bytes)", validate.ErrNameTooLong, validate.MaxItemNameSize)
	}
	if err := s.store.CreateAuthor(ctx, inv.UUID, name, registeredDate, string(keyAlgo), publicKey); err != nil {
		return "", err
	}
	return inv.UUID, nil
}

func (s *Service) checkInvite(token string) (Invite, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Invite{}, fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}
	var msg crypto.SignedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Invite{}, fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}
	key, err := crypto.PrivateKeyFromBytes(crypto.AlgoHMACSHA256, s.secret.Derive(secret.PurposeSigningKey))
	if err != nil {
		return Invite{}, err
	}
	payload, err := msg.VerifyWithSecret(key)
	if err != nil {
		return Invite{}, fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}
	var inv Invite
	if err := json.Unmarshal(payload, &inv); err != nil {
		return Invite{}, fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}
	if inv.Command != inviteCommand {
		return Invite{}, fmt.Errorf("%w: unexpected command", ErrInvalidInvite)
	}
	if !isCanonicalV4(inv.UUID) {
		return Invite{}, fmt.Errorf("%w: malformed uuid", ErrInvalidInvite)
	}
	return inv, nil
}

// isCanonicalV4 accepts only the lowercase canonical form of a version
// 4 uuid. Anything else, including uppercase or urn-prefixed variants,
// is rejected so the account table never holds two spellings of one
// invite.
func isCanonicalV4(s string) bool {
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Version() == 4 && u.String() == s
}

// ChangeCredentials rotates an author's signing key. The caller has
// already authenticated the request envelope signed by the old key;
// proof must be an envelope signed by the new key whose payload is
// exactly the old public key, demonstrating possession of the new key
// and binding the rotation to this identity.
func (s *Service) ChangeCredentials(ctx context.Context, oldPublicKey []byte, proof *crypto.SignedMessage) error {
	payload, err := proof.Verify()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !bytes.Equal(payload, oldPublicKey) {
		return fmt.Errorf("%w: proof does not cover the current key", ErrUnauthorized)
	}
	newKey, err := proof.PublicKey()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return s.store.ReplacePublicKey(ctx, oldPublicKey, string(proof.Algo()), newKey)
}
