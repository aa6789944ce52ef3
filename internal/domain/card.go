package domain

import (
	"strings"
	"unicode/utf8"
)

// CardRequest holds one submitted name+message pair.
type CardRequest struct {
	Name    string
	Message string
}

// Validate checks the request against the submission rules. maxMessageChars <= 0
// disables the length check.
func (r CardRequest) Validate(maxMessageChars int) error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Message) == "" {
		return ErrMissingFields
	}
	if maxMessageChars > 0 && utf8.RuneCountInString(r.Message) > maxMessageChars {
		return ErrMessageTooLong
	}
	return nil
}
