// Package common contains shared constants and sentinel errors used across
// the Merimaa feed client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound = errors.New("not found")

	// Generic internal flow control.
	ErrorInternal = errors.New("internal error")

	// Session errors.
	ErrorUnauthorized = errors.New("unauthorized")
)
