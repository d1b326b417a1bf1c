package ports

import (
	"context"
	"time"

	"github.com/comunidades/groups-api/internal/core/domain"
)

// RegisterInput carries the profile fields accepted at sign-up.
type RegisterInput struct {
	Email         string
	Password      string
	DisplayName   string
	Bio           string
	LocationCity  string
	LocationState string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, id *domain.Identity) error
}

// IdentityResolver turns a bearer credential into an identity, or fails
// with domain.ErrUnauthenticated.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// TokenRevoker keeps the denylist of revoked token ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
