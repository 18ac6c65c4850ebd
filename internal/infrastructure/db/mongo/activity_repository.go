package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openlearn/education-platform/internal/core/domain"
)

const collectionActivity = "auth_activity"

// ActivityRepository stores the auth audit trail.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

type activityDoc struct {
	Type       string `bson:"type"`
	Username   string `bson:"username"`
	UserID     string `bson:"user_id,omitempty"`
	RemoteIP   string `bson:"remote_ip,omitempty"`
	OccurredAt int64  `bson:"occurred_at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, event *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := activityDoc{
		Type:       string(event.Type),
		Username:   event.Username,
		UserID:     event.UserID,
		RemoteIP:   event.RemoteIP,
		OccurredAt: event.OccurredAt.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByUsername(ctx context.Context, username string, limit int64) ([]*domain.ActivityEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer cur.Close(ctx)

	var events []*domain.ActivityEvent
	for cur.Next(ctx) {
		var doc activityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		events = append(events, &domain.ActivityEvent{
			Type:       domain.ActivityType(doc.Type),
			Username:   doc.Username,
			UserID:     doc.UserID,
			RemoteIP:   doc.RemoteIP,
			OccurredAt: unixToTime(doc.OccurredAt),
		})
	}
	return events, cur.Err()
}

// EnsureIndexes creates lookup indexes for the audit trail.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	return err
}
