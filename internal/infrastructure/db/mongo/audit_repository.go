package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/primetrade/taskhub/internal/core/domain"
)

const activityCollection = "activity_events"

type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(activityCollection)}
}

type mongoActivity struct {
	Action     string `bson:"action"`
	ActorID    string `bson:"actor_id,omitempty"`
	ActorEmail string `bson:"actor_email,omitempty"`
	TargetID   string `bson:"target_id,omitempty"`
	Timestamp  int64  `bson:"timestamp"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.ActivityEvent) error {
	doc := mongoActivity{
		Action:     event.Action,
		ActorID:    event.ActorID,
		ActorEmail: event.ActorEmail,
		TargetID:   event.TargetID,
		Timestamp:  event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
