package ports

import (
	"context"

	"github.com/comunidades/groups-api/internal/core/domain"
)

// GroupInput is the payload of a create or update request. Keys the caller
// did not send stay zero-valued (Present == false). Server-maintained fields
// such as id, created_by and member_count have no place here.
//
// Malformed is set when the body was not a JSON object at all. Decoding
// problems are carried here so the service can report them after the
// existence and permission checks.
type GroupInput struct {
	Malformed     bool
	Name          Field[string]
	Description   Field[string]
	Category      Field[string]
	Visibility    Field[string]
	JoinPolicy    Field[string]
	MaxMembers    Field[int]
	LocationCity  Field[string]
	LocationState Field[string]
}

// ListGroupsInput carries the filters and pagination of the list endpoint.
type ListGroupsInput struct {
	Category string
	City     string
	Page     Field[int]
	Limit    Field[int]
}

// Pagination describes the page returned by ListGroups.
type Pagination struct {
	Page    int
	Limit   int
	Total   int64
	HasNext bool
}

// ListGroupsResult is returned by ListGroups.
type ListGroupsResult struct {
	Items      []*domain.Group
	Pagination Pagination
}

// GroupService defines use-case operations for groups. A nil identity is
// rejected with domain.ErrUnauthenticated before anything else runs.
type GroupService interface {
	ListGroups(ctx context.Context, id *domain.Identity, input ListGroupsInput) (*ListGroupsResult, error)
	CreateGroup(ctx context.Context, id *domain.Identity, input GroupInput) (*domain.Group, error)
	UpdateGroup(ctx context.Context, id *domain.Identity, groupID string, input GroupInput) (*domain.Group, error)
}
