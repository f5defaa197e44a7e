package app

import (
	"crypto/subtle"

	"quivato_reviews/internal/domain"
)

// SecretGate guards write operations with the single admin secret.
type SecretGate struct{ secret []byte }

func NewSecretGate(secret string) *SecretGate { return &SecretGate{secret: []byte(secret)} }

// Authorize reports ErrUnauthorized unless supplied equals the configured secret.
// An unset secret denies everything.
func (g *SecretGate) Authorize(supplied string) error {
	if len(g.secret) == 0 || subtle.ConstantTimeCompare([]byte(supplied), g.secret) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}
