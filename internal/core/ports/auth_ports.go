package ports

import "context"

type AuthService interface {
	// Login verifies company credentials and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, error)
}
