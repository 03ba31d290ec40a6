package auth

import (
	"strings"
	"time"
)

// Identity is the per-request identity context. The zero value is the
// anonymous identity.
type Identity struct {
	UserId        string
	Authenticated bool
}

var Anonymous = Identity{}

// Verifier derives an Identity from a bearer credential. Anonymous fallback is
// the deliberate policy: a missing, malformed, tampered or expired token
// yields the anonymous identity rather than an error, and each operation
// enforces its own authentication requirement through the guard.
type Verifier struct {
	credentials *Credentials
}

func NewVerifier(credentials *Credentials) *Verifier {
	return &Verifier{credentials: credentials}
}

func (v *Verifier) Identify(authorizationHeader string, now time.Time) Identity {
	if authorizationHeader == "" {
		return Anonymous
	}
	parts := strings.Split(authorizationHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return Anonymous
	}

	userId, expiry, err := v.credentials.DecodeToken(parts[1])
	if err != nil {
		return Anonymous
	}
	if !expiry.After(now) {
		return Anonymous
	}
	return Identity{UserId: userId, Authenticated: true}
}
