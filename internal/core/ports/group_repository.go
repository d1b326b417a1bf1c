package ports

import (
	"context"

	"github.com/comunidades/groups-api/internal/core/domain"
)

// ListGroupsFilter carries all query parameters for listing groups.
// Visibility scoping is always set by the service layer.
type ListGroupsFilter struct {
	MemberOf []string // group ids where the requester holds an active membership
	Category string   // optional: exact category
	City     string   // optional: exact location_city
	Page     int      // 1-based
	Limit    int
}

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	// FindByID returns domain.ErrGroupNotFound when no group has the id.
	FindByID(ctx context.Context, id string) (*domain.Group, error)
	// List returns the page of groups that are public or listed in
	// filter.MemberOf, plus the total count matching the filter.
	List(ctx context.Context, filter ListGroupsFilter) ([]*domain.Group, int64, error)
	// Insert atomically stores the group and its creator membership.
	// A (created_by, name) collision returns domain.ErrGroupNameTaken.
	Insert(ctx context.Context, g *domain.Group, creator *domain.Membership) error
	// Update persists the mutable fields of g.
	Update(ctx context.Context, g *domain.Group) error
}

// MembershipRepository answers who belongs to which group.
type MembershipRepository interface {
	// FindByGroupAndUser returns domain.ErrMembershipNotFound when absent.
	FindByGroupAndUser(ctx context.Context, groupID, userID string) (*domain.Membership, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
}

// GroupEventRepository persists the audit trail of group mutations.
type GroupEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.GroupEvent) error
}
