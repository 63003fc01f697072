package jopacc

import (
	"time"

	"github.com/google/uuid"
)

// HeaderSource supplies the per-call dynamic header values: a fresh
// idempotency key, a fresh interaction id, and the auth timestamp. It is an
// interface so tests can pin the values deterministically.
type HeaderSource interface {
	IdempotencyKey() string
	InteractionID() string
	AuthDate() string
}

type uuidHeaderSource struct{}

// NewHeaderSource returns the production header source backed by random
// UUIDs and the system clock.
func NewHeaderSource() HeaderSource {
	return uuidHeaderSource{}
}

func (uuidHeaderSource) IdempotencyKey() string {
	return uuid.NewString()
}

func (uuidHeaderSource) InteractionID() string {
	return uuid.NewString()
}

func (uuidHeaderSource) AuthDate() string {
	return time.Now().UTC().Format(time.RFC3339)
}
