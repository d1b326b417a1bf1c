package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/comunidades/groups-api/internal/core/domain"
	"github.com/comunidades/groups-api/internal/core/ports"
	"github.com/comunidades/groups-api/internal/core/validation"
)

type GroupService struct {
	groups  ports.GroupRepository
	members membershipLookup
	events  ports.GroupEventRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewGroupService(
	groups ports.GroupRepository,
	memberships ports.MembershipRepository,
	events ports.GroupEventRepository,
	log zerolog.Logger,
) *GroupService {
	return &GroupService{
		groups:  groups,
		members: membershipLookup{repo: memberships},
		events:  events,
		log:     log,
		now:     time.Now,
	}
}

// ListGroups returns the page of groups visible to the requester: public
// groups plus any group where the requester holds an active membership.
func (s *GroupService) ListGroups(ctx context.Context, id *domain.Identity, in ports.ListGroupsInput) (*ports.ListGroupsResult, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}

	page, limit, err := validation.ValidatePagination(in.Page, in.Limit)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateCategory(in.Category); err != nil {
		return nil, err
	}

	memberships, err := s.members.all(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	memberOf := make([]string, 0, len(memberships))
	for groupID := range memberships {
		memberOf = append(memberOf, groupID)
	}

	groups, total, err := s.groups.List(ctx, ports.ListGroupsFilter{
		MemberOf: memberOf,
		Category: in.Category,
		City:     in.City,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	items := make([]*domain.Group, 0, len(groups))
	for _, g := range groups {
		if d := domain.CanList(id, g, memberships[g.ID]); !d.Allowed {
			s.log.Error().Str("group_id", g.ID).Str("user_id", id.UserID).Str("reason", d.Reason).Msg("repository returned a group the requester cannot see")
			continue
		}
		items = append(items, g)
	}

	return &ports.ListGroupsResult{
		Items: items,
		Pagination: ports.Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: int64(page)*int64(limit) < total,
		},
	}, nil
}

// CreateGroup validates the payload, applies defaults and stores the group
// together with the requester's creator membership.
func (s *GroupService) CreateGroup(ctx context.Context, id *domain.Identity, input ports.GroupInput) (*domain.Group, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}
	if d := domain.CanCreate(id); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
	}

	in, err := validation.ValidateCreate(input)
	if err != nil {
		return nil, err
	}
	in = validation.ApplyDefaults(in)

	now := s.timestamp()
	g := &domain.Group{
		ID:            uuid.NewString(),
		Name:          in.Name.Value,
		Description:   in.Description.Ptr(),
		Category:      domain.Category(in.Category.Value),
		Visibility:    domain.Visibility(in.Visibility.Value),
		JoinPolicy:    domain.JoinPolicy(in.JoinPolicy.Value),
		MaxMembers:    in.MaxMembers.Value,
		MemberCount:   1,
		LocationCity:  in.LocationCity.Ptr(),
		LocationState: in.LocationState.Ptr(),
		CreatedBy:     id.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	creator := &domain.Membership{
		GroupID:  g.ID,
		UserID:   id.UserID,
		Role:     domain.RoleCreator,
		Status:   domain.MembershipActive,
		JoinedAt: now,
	}

	if err := s.groups.Insert(ctx, g, creator); err != nil {
		if !errors.Is(err, domain.ErrGroupNameTaken) {
			s.log.Error().Err(err).Str("user_id", id.UserID).Msg("failed to create group")
		}
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.record(ctx, domain.EventGroupCreated, g.ID, id.UserID, nil)
	s.log.Info().Str("group_id", g.ID).Str("user_id", id.UserID).Str("category", string(g.Category)).Msg("group created")

	return g, nil
}

// UpdateGroup applies a partial payload. Existence is checked before
// permission, and permission before validation. A payload that changes
// nothing returns the stored record untouched.
func (s *GroupService) UpdateGroup(ctx context.Context, id *domain.Identity, groupID string, input ports.GroupInput) (*domain.Group, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}

	existing, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}

	membership, err := s.members.of(ctx, id.UserID, groupID)
	if err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	if d := domain.CanUpdate(id, existing, membership); !d.Allowed {
		s.log.Debug().Str("group_id", groupID).Str("user_id", id.UserID).Str("reason", d.Reason).Msg("update denied")
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
	}

	in, err := validation.ValidateUpdate(input)
	if err != nil {
		return nil, err
	}

	updated, changed := mergeGroup(existing, in)
	if len(changed) == 0 {
		return existing, nil
	}
	updated.UpdatedAt = s.timestamp()

	if err := s.groups.Update(ctx, updated); err != nil {
		if !errors.Is(err, domain.ErrGroupNameTaken) && !errors.Is(err, domain.ErrGroupNotFound) {
			s.log.Error().Err(err).Str("group_id", groupID).Msg("failed to update group")
		}
		return nil, fmt.Errorf("update group: %w", err)
	}

	s.record(ctx, domain.EventGroupUpdated, groupID, id.UserID, changed)
	s.log.Info().Str("group_id", groupID).Str("user_id", id.UserID).Strs("fields", changed).Msg("group updated")

	return updated, nil
}

// timestamp returns the current time in UTC at the millisecond precision
// MongoDB stores, so returned records match what a later read yields.
func (s *GroupService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// record appends to the audit trail. Failures are logged, never returned.
func (s *GroupService) record(ctx context.Context, typ domain.GroupEventType, groupID, actorID string, fields []string) {
	event := &domain.GroupEvent{
		GroupID:       groupID,
		Type:          typ,
		ActorID:       actorID,
		ChangedFields: fields,
		OccurredAt:    s.timestamp(),
	}
	if err := s.events.InsertEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("group_id", groupID).Str("event", string(typ)).Msg("failed to insert group event")
	}
}

// mergeGroup copies the present fields of in onto a clone of g and reports
// which fields actually changed. Null clears nullable fields.
func mergeGroup(g *domain.Group, in ports.GroupInput) (*domain.Group, []string) {
	out := g.Clone()
	var changed []string

	if in.Name.HasValue() && in.Name.Value != out.Name {
		out.Name = in.Name.Value
		changed = append(changed, "name")
	}
	if in.Description.Present && !equalPtr(out.Description, in.Description.Ptr()) {
		out.Description = in.Description.Ptr()
		changed = append(changed, "description")
	}
	if in.Category.HasValue() && domain.Category(in.Category.Value) != out.Category {
		out.Category = domain.Category(in.Category.Value)
		changed = append(changed, "category")
	}
	if in.Visibility.HasValue() && domain.Visibility(in.Visibility.Value) != out.Visibility {
		out.Visibility = domain.Visibility(in.Visibility.Value)
		changed = append(changed, "visibility")
	}
	if in.JoinPolicy.HasValue() && domain.JoinPolicy(in.JoinPolicy.Value) != out.JoinPolicy {
		out.JoinPolicy = domain.JoinPolicy(in.JoinPolicy.Value)
		changed = append(changed, "join_policy")
	}
	if in.MaxMembers.HasValue() && in.MaxMembers.Value != out.MaxMembers {
		out.MaxMembers = in.MaxMembers.Value
		changed = append(changed, "max_members")
	}
	if in.LocationCity.Present && !equalPtr(out.LocationCity, in.LocationCity.Ptr()) {
		out.LocationCity = in.LocationCity.Ptr()
		changed = append(changed, "location_city")
	}
	if in.LocationState.Present && !equalPtr(out.LocationState, in.LocationState.Ptr()) {
		out.LocationState = in.LocationState.Ptr()
		changed = append(changed, "location_state")
	}

	return out, changed
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
