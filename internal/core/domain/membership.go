package domain

import "time"

// Role is the position a user holds inside a single group.
type Role string

const (
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
)

// MembershipStatus is the lifecycle state of a membership.
type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "active"
	MembershipPending MembershipStatus = "pending"
	MembershipBanned  MembershipStatus = "banned"
)

// Membership relates a user to a group. Exactly one document exists per
// (group_id, user_id); every group has exactly one creator membership.
type Membership struct {
	GroupID  string           `json:"group_id" bson:"group_id"`
	UserID   string           `json:"user_id" bson:"user_id"`
	Role     Role             `json:"role" bson:"role"`
	Status   MembershipStatus `json:"status" bson:"status"`
	JoinedAt time.Time        `json:"joined_at" bson:"joined_at"`
}

// IsActive reports whether the membership currently grants any access.
func (m *Membership) IsActive() bool {
	return m != nil && m.Status == MembershipActive
}
