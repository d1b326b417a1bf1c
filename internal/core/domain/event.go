package domain

import "time"

// GroupEventType names a mutation recorded in the audit trail.
type GroupEventType string

const (
	EventGroupCreated GroupEventType = "group.created"
	EventGroupUpdated GroupEventType = "group.updated"
)

// GroupEvent records a successful mutation of a group.
type GroupEvent struct {
	GroupID       string
	Type          GroupEventType
	ActorID       string
	ChangedFields []string
	OccurredAt    time.Time
}
