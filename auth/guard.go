package auth

import "chirp/domain"

func RequireAuthenticated(identity Identity) error {
	if !identity.Authenticated {
		return domain.ErrAuthRequired
	}
	return nil
}

// RequireOwner allows the operation only when the authenticated identity
// matches the owner id the client supplied for the target resource.
func RequireOwner(identity Identity, ownerId string) error {
	if err := RequireAuthenticated(identity); err != nil {
		return err
	}
	if identity.UserId != ownerId {
		return domain.ErrForbidden
	}
	return nil
}
