package server

import (
	"context"
	"net/http"
	"time"

	"chirp/auth"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const identityContextKey contextKey = "identity"

// identityMiddleware derives the per-request identity from the Authorization
// header. A missing or unverifiable bearer token yields the anonymous
// identity; each operation enforces its own authentication requirement.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := s.verifier.Identify(r.Header.Get("Authorization"), time.Now())

		requestId := uuid.New().String()
		log.WithFields(log.Fields{
			"request_id":    requestId,
			"method":        r.Method,
			"path":          r.URL.Path,
			"authenticated": identity.Authenticated,
		}).Debug("Handling request")

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromRequest(r *http.Request) auth.Identity {
	identity, ok := r.Context().Value(identityContextKey).(auth.Identity)
	if !ok {
		return auth.Anonymous
	}
	return identity
}
