package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/comunidades/groups-api/internal/core/domain"
)

// Resolve validates a bearer token and loads the profile it belongs to.
// Any token problem, revoked token or missing profile is reported as
// domain.ErrUnauthenticated; storage failures are wrapped and returned.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrUnauthenticated
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return &domain.Identity{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		TokenID:     claims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
