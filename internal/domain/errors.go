package domain

import "errors"

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrFeedClosed       = errors.New("feed closed")
	ErrSessionLimit     = errors.New("session limit reached")
)
