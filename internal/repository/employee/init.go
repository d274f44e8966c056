package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/you-humble/asset-tracker/internal/model"
)

func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	for _, kind := range model.Kinds() {
		idx = append(idx, mongo.IndexModel{Keys: bson.D{{Key: kind.IDField(), Value: 1}}})
	}

	_, err := coll.Indexes().CreateMany(ctx, idx, options.CreateIndexes())
	return err
}
