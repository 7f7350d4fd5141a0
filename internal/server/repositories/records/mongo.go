package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores records in the vaults collection, one document per
// record: {_id, userId, data, iv, createdAt, updatedAt}.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// EnsureIndexes creates the owner listing index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, rec *models.Record) error {
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	result := make([]*models.Record, 0)
	for cur.Next(ctx) {
		var item models.Record
		if err := cur.Decode(&item); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &item)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) Update(ctx context.Context, ownerID, id, data, iv string, updatedAt time.Time) (*models.Record, error) {
	filter := bson.M{"_id": id, "userId": ownerID}
	update := bson.M{"$set": bson.M{"data": data, "iv": iv, "updatedAt": updatedAt}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.Record
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

func (r *MongoRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
