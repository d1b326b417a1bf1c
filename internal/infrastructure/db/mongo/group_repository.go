package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comunidades/groups-api/internal/core/domain"
	"github.com/comunidades/groups-api/internal/core/ports"
)

const collectionGroups = "groups"

// GroupRepository stores groups and, on insert, the creator membership in
// the same transaction. Transactions require a replica set.
type GroupRepository struct {
	client  *mongo.Client
	col     *mongo.Collection
	members *mongo.Collection
}

func NewGroupRepository(client *mongo.Client, db *mongo.Database) *GroupRepository {
	return &GroupRepository{
		client:  client,
		col:     db.Collection(collectionGroups),
		members: db.Collection(collectionMemberships),
	}
}

// FindByID retrieves a group by id.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var g domain.Group
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns groups that are public or that the requester belongs to, in
// creation order.
func (r *GroupRepository) List(ctx context.Context, f ports.ListGroupsFilter) ([]*domain.Group, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count groups: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(f.Page-1) * int64(f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find groups: %w", err)
	}
	defer cur.Close(ctx)

	groups := make([]*domain.Group, 0, f.Limit)
	if err := cur.All(ctx, &groups); err != nil {
		return nil, 0, fmt.Errorf("decode groups: %w", err)
	}
	return groups, total, nil
}

func listFilter(f ports.ListGroupsFilter) bson.M {
	scope := bson.A{bson.M{"visibility": string(domain.VisibilityPublic)}}
	if len(f.MemberOf) > 0 {
		scope = append(scope, bson.M{"_id": bson.M{"$in": f.MemberOf}})
	}

	filter := bson.M{"$or": scope}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.City != "" {
		filter["location_city"] = f.City
	}
	return filter
}

// Insert writes the group and the creator membership atomically.
func (r *GroupRepository) Insert(ctx context.Context, g *domain.Group, creator *domain.Membership) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.col.InsertOne(sc, g); err != nil {
			return nil, err
		}
		if _, err := r.members.InsertOne(sc, creator); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrGroupNameTaken
		}
		return err
	}
	return nil
}

// Update writes the mutable fields of g. id, created_by, member_count and
// created_at are never touched.
func (r *GroupRepository) Update(ctx context.Context, g *domain.Group) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":           g.Name,
		"description":    g.Description,
		"category":       g.Category,
		"visibility":     g.Visibility,
		"join_policy":    g.JoinPolicy,
		"max_members":    g.MaxMembers,
		"location_city":  g.LocationCity,
		"location_state": g.LocationState,
		"updated_at":     g.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": g.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrGroupNameTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the groups collection.
func (r *GroupRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_creator_name"),
		},
		{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "location_city", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure %s indexes: %w", collectionGroups, err)
	}
	return nil
}
