package domain

import "errors"

var (
	// ErrMissingFields signals that the submitted name or message is empty after trimming.
	ErrMissingFields = errors.New("name and message are required")
	// ErrMessageTooLong signals that the submitted message exceeds the configured limit.
	ErrMessageTooLong = errors.New("message exceeds the allowed length")
	// ErrTemplateNotFound signals that the card template PDF is missing.
	// No output is produced when this is returned.
	ErrTemplateNotFound = errors.New("card template not found")
	// ErrRenderFailed signals a fault while drawing or merging the card overlay.
	ErrRenderFailed = errors.New("card rendering failed")
)
