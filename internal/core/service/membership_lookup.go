package service

import (
	"context"
	"errors"

	"github.com/comunidades/groups-api/internal/core/domain"
	"github.com/comunidades/groups-api/internal/core/ports"
)

// membershipLookup answers "does this user hold an active membership, and
// with which role" for both the listing and the update paths. Inactive
// memberships are never returned.
type membershipLookup struct {
	repo ports.MembershipRepository
}

// of returns the requester's active membership in groupID, or nil.
func (l membershipLookup) of(ctx context.Context, userID, groupID string) (*domain.Membership, error) {
	m, err := l.repo.FindByGroupAndUser(ctx, groupID, userID)
	if errors.Is(err, domain.ErrMembershipNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, nil
	}
	return m, nil
}

// all returns the requester's active memberships keyed by group id.
func (l membershipLookup) all(ctx context.Context, userID string) (map[string]*domain.Membership, error) {
	list, err := l.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*domain.Membership, len(list))
	for _, m := range list {
		if m.IsActive() {
			out[m.GroupID] = m
		}
	}
	return out, nil
}
