package crypto

import "errors"

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrInvalidKeyLength     = errors.New("invalid key length")
	ErrInvalidPublicKey     = errors.New("invalid public key")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrSignatureMismatch    = errors.New("signature mismatch")
	ErrWrongMode            = errors.New("wrong algorithm mode for operation")
)
