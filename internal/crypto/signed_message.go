package crypto

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// SignedMessage is the wire envelope binding a payload to a signature
// and, in Ed25519 mode, the signer's public key. Binary fields travel
// base64-encoded:
//
//	{"algo": "ed25519", "pubk": "...", "sig": "...", "msg": "..."}
//
// In HMAC mode pubk is the empty string. Envelopes are validated at
// construction, including when decoded from JSON, so an envelope value
// in hand always satisfies the per-algorithm shape invariants.
type SignedMessage struct {
	algo Algorithm
	pubk []byte
	sig  []byte
	msg  []byte
}

type signedMessageWire struct {
	Algo Algorithm `json:"algo"`
	Pubk []byte    `json:"pubk"`
	Sig  []byte    `json:"sig"`
	Msg  []byte    `json:"msg"`
}

// NewSignedMessage assembles an envelope from its parts, enforcing the
// shape invariants: HMAC envelopes carry no public key, Ed25519
// envelopes carry a 32-byte public key and a 64-byte signature.
func NewSignedMessage(algo Algorithm, publicKey, signature, msg []byte) (*SignedMessage, error) {
	if !algo.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algo)
	}
	if algo == AlgoHMACSHA256 {
		if len(publicKey) != 0 {
			return nil, fmt.Errorf("%w: public key must be empty for hmac-sha256", ErrInvalidPublicKey)
		}
		if len(signature) != sha256.Size {
			return nil, fmt.Errorf("%w: hmac-sha256 tag must be %d bytes", ErrInvalidSignature, sha256.Size)
		}
	} else {
		if len(publicKey) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("%w: ed25519 public key must be %d bytes", ErrInvalidPublicKey, ed25519.PublicKeySize)
		}
		if len(signature) != ed25519.SignatureSize {
			return nil, fmt.Errorf("%w: ed25519 signature must be %d bytes", ErrInvalidSignature, ed25519.SignatureSize)
		}
	}
	return &SignedMessage{
		algo: algo,
		pubk: append([]byte(nil), publicKey...),
		sig:  append([]byte(nil), signature...),
		msg:  append([]byte(nil), msg...),
	}, nil
}

// Sign produces an envelope over msg with the given key. In Ed25519
// mode the verifying key is derived from the seed and embedded; in HMAC
// mode the signature is the HMAC-SHA256 tag and pubk stays empty.
func Sign(key PrivateKey, msg []byte) (*SignedMessage, error) {
	switch key.algo {
	case AlgoHMACSHA256:
		mac := hmac.New(sha256.New, key.key)
		mac.Write(msg)
		return NewSignedMessage(AlgoHMACSHA256, nil, mac.Sum(nil), msg)
	case AlgoEd25519:
		if len(key.key) != ed25519.SeedSize {
			return nil, fmt.Errorf("%w: ed25519 seed must be %d bytes", ErrInvalidKeyLength, ed25519.SeedSize)
		}
		priv := ed25519.NewKeyFromSeed(key.key)
		pub := priv.Public().(ed25519.PublicKey)
		sig := ed25519.Sign(priv, msg)
		return NewSignedMessage(AlgoEd25519, pub, sig, msg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, key.algo)
	}
}

// Algo returns the envelope's algorithm tag.
func (m *SignedMessage) Algo() Algorithm {
	return m.algo
}

// Verify checks the Ed25519 signature against the embedded public key
// and returns the authenticated payload. Callers treat the public key
// (via PublicKey) as the sender's identity afterwards.
func (m *SignedMessage) Verify() ([]byte, error) {
	if m.algo != AlgoEd25519 {
		return nil, fmt.Errorf("%w: secret key required for %s", ErrWrongMode, m.algo)
	}
	if len(m.pubk) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: wrong length", ErrInvalidPublicKey)
	}
	if len(m.sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: wrong length", ErrInvalidSignature)
	}
	if !ed25519.Verify(ed25519.PublicKey(m.pubk), m.msg, m.sig) {
		return nil, ErrSignatureMismatch
	}
	return m.msg, nil
}

// VerifyWithSecret recomputes the HMAC tag under the given key and
// compares it to the embedded signature in constant time. This guards
// the invite-redemption path against timing side channels.
func (m *SignedMessage) VerifyWithSecret(key PrivateKey) ([]byte, error) {
	if m.algo != AlgoHMACSHA256 {
		return nil, fmt.Errorf("%w: no secret key applicable for %s", ErrWrongMode, m.algo)
	}
	if key.algo != AlgoHMACSHA256 {
		return nil, fmt.Errorf("%w: key algorithm is %s", ErrWrongMode, key.algo)
	}
	mac := hmac.New(sha256.New, key.key)
	mac.Write(m.msg)
	if !hmac.Equal(mac.Sum(nil), m.sig) {
		return nil, ErrSignatureMismatch
	}
	return m.msg, nil
}

// PublicKey returns the embedded Ed25519 public key.
func (m *SignedMessage) PublicKey() ([]byte, error) {
	if m.algo != AlgoEd25519 {
		return nil, fmt.Errorf("%w: %s envelopes carry no public key", ErrWrongMode, m.algo)
	}
	return m.pubk, nil
}

// Signature returns the raw signature bytes.
func (m *SignedMessage) Signature() []byte {
	return m.sig
}

// Payload returns the raw payload bytes without verifying anything.
// Use Verify or VerifyWithSecret to obtain authenticated bytes.
func (m *SignedMessage) Payload() []byte {
	return m.msg
}

func (m *SignedMessage) MarshalJSON() ([]byte, error) {
	pubk := m.pubk
	if pubk == nil {
		pubk = []byte{}
	}
	return json.Marshal(signedMessageWire{Algo: m.algo, Pubk: pubk, Sig: m.sig, Msg: m.msg})
}

func (m *SignedMessage) UnmarshalJSON(data []byte) error {
	var wire signedMessageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	parsed, err := NewSignedMessage(wire.Algo, wire.Pubk, wire.Sig, wire.Msg)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}
