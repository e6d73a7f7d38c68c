package mongoeventrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventhub/eventhub/events"
	apperrors "github.com/eventhub/eventhub/internal/errors"
)

var _ events.Repo = (*MongoEventRepo)(nil)

type MongoEventRepo struct {
	coll *mongo.Collection
}

func New(db *mongo.Database) *MongoEventRepo {
	return &MongoEventRepo{coll: db.Collection("events")}
}

func (r *MongoEventRepo) Create(ctx context.Context, event *events.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	_, err := r.coll.InsertOne(ctx, event)
	return errors.Wrap(err, "[MongoEventRepo Create] InsertOne")
}

func (r *MongoEventRepo) GetByID(ctx context.Context, id string) (*events.Event, error) {
	var event events.Event
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrEventNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[MongoEventRepo GetByID] Decode")
	}
	return &event, nil
}

func (r *MongoEventRepo) List(ctx context.Context) ([]*events.Event, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "[MongoEventRepo List] Find")
	}
	defer cursor.Close(ctx)

	var list []*events.Event
	if err := cursor.All(ctx, &list); err != nil {
		return nil, errors.Wrap(err, "[MongoEventRepo List] All")
	}
	return list, nil
}

func (r *MongoEventRepo) Update(ctx context.Context, event *events.Event) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return errors.Wrap(err, "[MongoEventRepo Update] ReplaceOne")
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *MongoEventRepo) Delete(ctx context.Context, id string) (*events.Event, error) {
	var deleted events.Event
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrEventNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[MongoEventRepo Delete] FindOneAndDelete")
	}
	return &deleted, nil
}
