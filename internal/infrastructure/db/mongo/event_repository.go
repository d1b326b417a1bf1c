package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/comunidades/groups-api/internal/core/domain"
	"github.com/comunidades/groups-api/internal/core/ports"
)

const collectionGroupEvents = "group_events"

// EventRepository implements ports.GroupEventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.GroupEventRepository {
	return &EventRepository{db: db}
}

// InsertEvent appends a group mutation to the group_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.GroupEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"group_id":    event.GroupID,
		"type":        string(event.Type),
		"actor_id":    event.ActorID,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if len(event.ChangedFields) > 0 {
		doc["changed_fields"] = event.ChangedFields
	}

	_, err := r.db.Collection(collectionGroupEvents).InsertOne(ctx, doc)
	return err
}
