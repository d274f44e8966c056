package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/you-humble/asset-tracker/internal/model"
)

// Registry holds one repository per asset kind. It is built once at startup.
type Registry struct {
	repos map[model.Kind]*repository
}

func NewRegistry(db *mongo.Database) *Registry {
	reg := &Registry{repos: make(map[model.Kind]*repository)}
	for _, spec := range model.KindSpecs() {
		reg.repos[spec.Kind] = NewAssetRepository(spec.Kind, db.Collection(spec.Collection))
	}

	return reg
}

func (r *Registry) For(kind model.Kind) (*repository, error) {
	repo, ok := r.repos[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownKind, string(kind))
	}
	return repo, nil
}

func (r *Registry) All() map[model.Kind]*repository {
	out := make(map[model.Kind]*repository, len(r.repos))
	for k, v := range r.repos {
		out[k] = v
	}
	return out
}

func (r *Registry) EnsureIndexes(ctx context.Context) error {
	for kind, repo := range r.repos {
		_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		}, options.CreateIndexes())
		if err != nil {
			return fmt.Errorf("asset indexes %s: %w", kind, err)
		}
	}

	return nil
}
