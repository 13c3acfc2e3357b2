// Package store provides MongoDB-backed persistence for issues, votes,
// status history, comments and users. One type per collection; every method
// takes a context and the caller owns timeouts.
package store

import "github.com/pkg/errors"

// ErrNotFound is returned when a referenced document does not exist.
// Services map it into their own error taxonomy.
var ErrNotFound = errors.New("store: not found")
