// Package utils provides shared helpers used across the application.
package utils

import (
	"github.com/google/uuid"
)

// NewSessionID returns a fresh viewer session id.
//
// Go Learning Note — UUID Versions:
// uuid.NewV7 embeds a millisecond timestamp in the leading bits, so ids
// created later sort later. That makes log lines for a session easy to find
// by creation time. NewV7 only fails when the system random source does, in
// which case a random v4 id is still usable.
func NewSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ValidSessionID reports whether s has the shape of a session id. It says
// nothing about whether the session exists.
func ValidSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
