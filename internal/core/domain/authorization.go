package domain

// Action is an operation a requester attempts on a group.
type Action string

const (
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// permissions is the authorization matrix for membership roles.
// Anything absent from the table is denied.
var permissions = map[Role]map[Action]bool{
	RoleCreator: {ActionList: true, ActionUpdate: true},
	RoleAdmin:   {ActionList: true, ActionUpdate: true},
	RoleMember:  {ActionList: true},
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// Decide looks up whether role may perform action.
func Decide(role Role, action Action) bool {
	return permissions[role][action]
}

// CanList reports whether the requester may see group in listings.
// Public groups are visible to everyone; other visibilities require an
// active membership of any role.
func CanList(id *Identity, g *Group, m *Membership) Decision {
	if id == nil {
		return deny("authentication required")
	}
	if g.Visibility == VisibilityPublic {
		return allow("group is public")
	}
	if m.IsActive() && m.GroupID == g.ID && m.UserID == id.UserID && Decide(m.Role, ActionList) {
		return allow("requester is an active member")
	}
	return deny("group is " + string(g.Visibility) + " and requester is not a member")
}

// CanCreate reports whether the requester may create a group. Any
// authenticated identity with a profile may.
func CanCreate(id *Identity) Decision {
	if id == nil || id.UserID == "" {
		return deny("authentication required")
	}
	return allow("authenticated users may create groups")
}

// CanUpdate reports whether the requester may modify group. Only active
// creator or admin memberships of that group qualify.
func CanUpdate(id *Identity, g *Group, m *Membership) Decision {
	if id == nil {
		return deny("authentication required")
	}
	if m == nil || m.GroupID != g.ID || m.UserID != id.UserID {
		return deny("requester is not a member of this group")
	}
	if !m.IsActive() {
		return deny("membership is " + string(m.Status))
	}
	if !Decide(m.Role, ActionUpdate) {
		return deny("only group creators and admins can update a group")
	}
	return allow("requester is group " + string(m.Role))
}
