package mongouserrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/eventhub/eventhub/internal/errors"
	"github.com/eventhub/eventhub/users"
)

var _ users.Repo = (*MongoUserRepo)(nil)

type MongoUserRepo struct {
	coll *mongo.Collection
}

// New binds the repo to the "users" collection and ensures the unique
// indexes the credential model relies on (username, email).
func New(ctx context.Context, db *mongo.Database) (*MongoUserRepo, error) {
	coll := db.Collection("users")

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "[MongoUserRepo New] CreateMany indexes")
	}

	return &MongoUserRepo{coll: coll}, nil
}

func (r *MongoUserRepo) Create(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	_, err := r.coll.InsertOne(ctx, user)
	if isDuplicateKey(err) {
		return apperrors.ErrDuplicate
	}
	return errors.Wrap(err, "[MongoUserRepo Create] InsertOne")
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter interface{}) (*users.User, error) {
	var user users.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[MongoUserRepo findOne] Decode")
	}
	return &user, nil
}

func (r *MongoUserRepo) List(ctx context.Context) ([]*users.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "[MongoUserRepo List] Find")
	}
	defer cursor.Close(ctx)

	var list []*users.User
	if err := cursor.All(ctx, &list); err != nil {
		return nil, errors.Wrap(err, "[MongoUserRepo List] All")
	}
	return list, nil
}

func (r *MongoUserRepo) Update(ctx context.Context, user *users.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if isDuplicateKey(err) {
		return apperrors.ErrDuplicate
	}
	if err != nil {
		return errors.Wrap(err, "[MongoUserRepo Update] ReplaceOne")
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepo) DeleteByUsername(ctx context.Context, username string) (*users.User, error) {
	var deleted users.User
	err := r.coll.FindOneAndDelete(ctx, bson.M{"username": username}).Decode(&deleted)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[MongoUserRepo DeleteByUsername] FindOneAndDelete")
	}
	return &deleted, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var wex mongo.WriteException
	if errors.As(err, &wex) {
		for _, we := range wex.WriteErrors {
			if we.Code == 11000 {
				return true
			}
		}
	}
	return false
}
