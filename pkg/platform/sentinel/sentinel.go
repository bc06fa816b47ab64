// Package sentinel holds the infrastructure errors stores return. Services
// translate them into domain errors; they never reach a caller as-is.
package sentinel

import "errors"

var (
	// ErrNotFound: the row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: the transaction lost a race (serialization failure,
	// deadlock, duplicate key) and may succeed if retried.
	ErrConflict = errors.New("conflict")
)
