package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
// La implementación real vive en adapters/auth; nil = modo dev.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
