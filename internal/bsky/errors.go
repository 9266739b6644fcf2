package bsky

import (
	"errors"
	"fmt"
)

// ErrUnauthorized marks 401 responses, e.g. an expired access token.
var ErrUnauthorized = errors.New("unauthorized")

// AuthError reports a failed credential exchange. No token is produced.
type AuthError struct {
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("bsky login: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("bsky login: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TransportError reports a failed API call after login: network failure,
// non-2xx status, rate-limit wait failure or an undecodable body.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
