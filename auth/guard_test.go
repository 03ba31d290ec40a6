package auth

import (
	"errors"
	"testing"

	"chirp/domain"
)

func TestRequireOwner(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		ownerId  string
		want     error
	}{
		{"anonymous", Anonymous, "abc", domain.ErrAuthRequired},
		{"other user", Identity{UserId: "def", Authenticated: true}, "abc", domain.ErrForbidden},
		{"owner", Identity{UserId: "abc", Authenticated: true}, "abc", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwner(tt.identity, tt.ownerId)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRequireAuthenticated(t *testing.T) {
	if err := RequireAuthenticated(Anonymous); !errors.Is(err, domain.ErrAuthRequired) {
		t.Errorf("got %v, want ErrAuthRequired", err)
	}
	if err := RequireAuthenticated(Identity{UserId: "abc", Authenticated: true}); err != nil {
		t.Errorf("got %v, want nil", err)
	}
}
