package auth

import "context"

// Claims es la identidad extraída de un token verificado.
type Claims struct {
	UserID string
	Email  string
}

// AuthVerifier verifica un bearer token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
