// Package validate bounds-checks the free-form inputs accepted by the
// API before anything reaches the database.
package validate

import (
	"errors"
	"regexp"
)

// Size limits in bytes.
const (
	MaxPageTextSize        = 100_000
	MaxPageTitleSize       = 1000
	MaxItemNameSize        = 100
	MaxItemDescriptionSize = 1000
)

var (
	ErrInvalidHandle       = errors.New("invalid handle")
	ErrInvalidLanguageCode = errors.New("invalid language code")
	ErrNameTooLong         = errors.New("name too long")
)

var (
	handleRe       = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	languageCodeRe = regexp.MustCompile(`^[a-z]{2,3}(-[A-Z]{2})?$`)
)

// ChannelHandle accepts lowercase DNS-label-style handles up to 64 bytes.
func ChannelHandle(handle string) error {
	if len(handle) > 64 || !handleRe.MatchString(handle) {
		return ErrInvalidHandle
	}
	return nil
}

// LanguageCode accepts BCP 47 primary subtags with an optional region,
// e.g. "en", "ja", "pt-BR".
func LanguageCode(lang string) error {
	if len(lang) > 64 || !languageCodeRe.MatchString(lang) {
		return ErrInvalidLanguageCode
	}
	return nil
}
