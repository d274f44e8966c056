package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/you-humble/asset-tracker/internal/repository/mongoerr"
)

// Concurrent upserts of a missing counter can race on the unique _id; the
// loser retries once against the now existing document.
const upsertAttempts = 2

type repository struct {
	coll *mongo.Collection
}

func NewCounterRepository(collection *mongo.Collection) *repository {
	return &repository{coll: collection}
}

// Next atomically increments the counter stored under key and returns the new
// value. A missing counter starts at 1.
func (r *repository) Next(ctx context.Context, key string) (int64, error) {
	const op = "counter.repository.Next"

	if key == "" {
		return 0, fmt.Errorf("%s: empty counter key", op)
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var (
		ent counterEntity
		err error
	)
	for range upsertAttempts {
		err = r.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": key},
			bson.M{"$inc": bson.M{"sequence_value": int64(1)}},
			opts,
		).Decode(&ent)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return 0, mongoerr.Wrap(op, err)
	}

	return ent.SequenceValue, nil
}
