package domain

import "time"

// Category is the fixed topic a group belongs to.
type Category string

const (
	CategorySports      Category = "sports"
	CategoryFood        Category = "food"
	CategoryCulture     Category = "culture"
	CategoryTech        Category = "tech"
	CategoryMusic       Category = "music"
	CategoryBooks       Category = "books"
	CategoryGames       Category = "games"
	CategoryTravel      Category = "travel"
	CategoryBusiness    Category = "business"
	CategoryOutdoor     Category = "outdoor"
	CategoryHealth      Category = "health"
	CategoryEducation   Category = "education"
	CategoryVolunteer   Category = "volunteer"
	CategoryPhotography Category = "photography"
	CategoryOther       Category = "other"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategorySports, CategoryFood, CategoryCulture, CategoryTech, CategoryMusic,
	CategoryBooks, CategoryGames, CategoryTravel, CategoryBusiness, CategoryOutdoor,
	CategoryHealth, CategoryEducation, CategoryVolunteer, CategoryPhotography, CategoryOther,
}

// Visibility controls whether non-members can see a group in listings.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	VisibilityHidden  Visibility = "hidden"
)

var Visibilities = []Visibility{VisibilityPublic, VisibilityPrivate, VisibilityHidden}

// JoinPolicy governs how new members are admitted.
type JoinPolicy string

const (
	JoinPolicyOpen       JoinPolicy = "open"
	JoinPolicyApproval   JoinPolicy = "approval"
	JoinPolicyInvitation JoinPolicy = "invitation"
)

var JoinPolicies = []JoinPolicy{JoinPolicyOpen, JoinPolicyApproval, JoinPolicyInvitation}

// Field limits shared by validation and storage.
const (
	NameMinLength        = 3
	NameMaxLength        = 100
	DescriptionMaxLength = 500
	LocationMaxLength    = 100
	MaxMembersLimit      = 500
	MinMembersLimit      = 1
)

// Group is the core aggregate root.
//
// Description, LocationCity and LocationState are nullable: nil means the
// value is absent, which is distinct from an empty string.
type Group struct {
	ID            string     `json:"id" bson:"_id"`
	Name          string     `json:"name" bson:"name"`
	Description   *string    `json:"description" bson:"description"`
	Category      Category   `json:"category" bson:"category"`
	Visibility    Visibility `json:"visibility" bson:"visibility"`
	JoinPolicy    JoinPolicy `json:"join_policy" bson:"join_policy"`
	MaxMembers    int        `json:"max_members" bson:"max_members"`
	MemberCount   int        `json:"member_count" bson:"member_count"`
	LocationCity  *string    `json:"location_city" bson:"location_city"`
	LocationState *string    `json:"location_state" bson:"location_state"`
	CreatedBy     string     `json:"created_by" bson:"created_by"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}

// Clone returns a deep copy, including the nullable string fields.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := *g
	c.Description = cloneString(g.Description)
	c.LocationCity = cloneString(g.LocationCity)
	c.LocationState = cloneString(g.LocationState)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
