package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/repository/mongoerr"
)

// Finished intents are kept for a week for troubleshooting.
const finishedRetention = 7 * 24 * time.Hour

type repository struct {
	coll *mongo.Collection
}

func NewIntentRepository(collection *mongo.Collection) *repository {
	return &repository{coll: collection}
}

func (r *repository) Begin(ctx context.Context, in *model.Intent) error {
	const op = "intent.repository.Begin"

	if in == nil || in.ID == "" {
		return fmt.Errorf("%s: intent id is empty", op)
	}

	now := time.Now().UTC()
	in.State = model.IntentPending
	in.CreatedAt = now
	in.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, EntityFromModel(in)); err != nil {
		return mongoerr.Wrap(op, err)
	}

	return nil
}

func (r *repository) Step(ctx context.Context, id, step string) error {
	const op = "intent.repository.Step"

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"steps": step},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return mongoerr.Wrap(op, err)
}

func (r *repository) Finish(ctx context.Context, id string, state model.IntentState) error {
	const op = "intent.repository.Finish"

	now := time.Now().UTC()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"state":       state,
			"updated_at":  now,
			"finished_at": now,
		}},
	)
	return mongoerr.Wrap(op, err)
}

// ListStale returns pending intents not touched since before.
func (r *repository) ListStale(ctx context.Context, before time.Time) ([]*model.Intent, error) {
	const op = "intent.repository.ListStale"

	cur, err := r.coll.Find(ctx,
		bson.M{
			"state":      model.IntentPending,
			"updated_at": bson.M{"$lt": before},
		},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}}),
	)
	if err != nil {
		return nil, mongoerr.Wrap(op, err)
	}

	var ents []IntentEntity
	if err := cur.All(ctx, &ents); err != nil {
		return nil, mongoerr.Wrap(op, err)
	}

	out := make([]*model.Intent, 0, len(ents))
	for i := range ents {
		out = append(out, EntityToModel(&ents[i]))
	}

	return out, nil
}

// ListInFlight returns pending intents touched at or after since.
func (r *repository) ListInFlight(ctx context.Context, since time.Time) ([]*model.Intent, error) {
	const op = "intent.repository.ListInFlight"

	cur, err := r.coll.Find(ctx, bson.M{
		"state":      model.IntentPending,
		"updated_at": bson.M{"$gte": since},
	})
	if err != nil {
		return nil, mongoerr.Wrap(op, err)
	}

	var ents []IntentEntity
	if err := cur.All(ctx, &ents); err != nil {
		return nil, mongoerr.Wrap(op, err)
	}

	return lo.Map(ents, func(e IntentEntity, _ int) *model.Intent { return EntityToModel(&e) }), nil
}

func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "updated_at", Value: 1}}},
		{
			Keys:    bson.D{{Key: "finished_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(finishedRetention.Seconds())),
		},
	}, options.CreateIndexes())

	return err
}
