// Package auth issues session tokens and verifies account credentials.
package auth

import (
	"context"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

// Authenticator checks account credentials. The service layer depends on
// it rather than on a particular scheme; PasswordAuthenticator is the only
// implementation.
type Authenticator interface {
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
