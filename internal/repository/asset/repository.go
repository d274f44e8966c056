package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/repository/mongoerr"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

type repository struct {
	kind model.Kind
	coll *mongo.Collection
}

func NewAssetRepository(kind model.Kind, collection *mongo.Collection) *repository {
	return &repository{kind: kind, coll: collection}
}

func (r *repository) Kind() model.Kind { return r.kind }

func (r *repository) Create(ctx context.Context, a *model.Asset) error {
	const op = "asset.repository.Create"

	if a == nil || a.ID == "" {
		return fmt.Errorf("%s: asset id is empty", op)
	}

	now := time.Now().UTC()
	a.Kind = r.kind
	a.Version = 1
	a.CreatedAt = lo.ToPtr(now)
	a.UpdatedAt = lo.ToPtr(now)

	if _, err := r.coll.InsertOne(ctx, EntityFromModel(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w: id %s already taken", op, model.ErrConflict, a.ID)
		}
		return mongoerr.Wrap(op, err)
	}

	return nil
}

func (r *repository) AssetByID(ctx context.Context, id string) (*model.Asset, error) {
	const op = "asset.repository.AssetByID"

	var ent AssetEntity
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", model.ErrAssetNotFound, id)
		}
		return nil, mongoerr.Wrap(op, err)
	}

	return EntityToModel(r.kind, &ent), nil
}

// Update applies w only if the stored version still equals version.
// It returns ErrConflict when another writer got there first.
func (r *repository) Update(
	ctx context.Context,
	id string,
	version int64,
	w model.AssetWrite,
) (*model.Asset, error) {
	const op = "asset.repository.Update"

	set := BuildSetDocument(w)
	set["updatedAt"] = time.Now().UTC()

	var ent AssetEntity
	err := r.coll.FindOneAndUpdate(ctx,
		BuildVersionFilter(id, version),
		bson.M{"$set": set, "$inc": bson.M{"version": int64(1)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ent)
	if err == nil {
		return EntityToModel(r.kind, &ent), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, mongoerr.Wrap(op, err)
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, mongoerr.Wrap(op, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrAssetNotFound, id)
	}

	return nil, fmt.Errorf("%s: %w: asset %s changed since version %d", op, model.ErrConflict, id, version)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	const op = "asset.repository.Delete"

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoerr.Wrap(op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", model.ErrAssetNotFound, id)
	}

	return nil
}

func (r *repository) List(ctx context.Context, filter model.AssetsFilter) ([]*model.Asset, error) {
	const op = "asset.repository.List"

	cur, err := r.coll.Find(ctx,
		BuildMongoFilter(filter),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, mongoerr.Wrap(op, err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			logger.Warn(ctx, "failed to close cursor", logger.String("op", op), logger.ErrorF(cerr))
		}
	}()

	out := make([]*model.Asset, 0)
	for cur.Next(ctx) {
		var ent AssetEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, fmt.Errorf("%s decode: %w", op, err)
		}
		out = append(out, EntityToModel(r.kind, &ent))
	}
	if err := cur.Err(); err != nil {
		return nil, mongoerr.Wrap(op+" cursor", err)
	}

	return out, nil
}

func (r *repository) CountByStatus(ctx context.Context) (model.AssetStats, error) {
	const op = "asset.repository.CountByStatus"

	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return model.AssetStats{}, mongoerr.Wrap(op, err)
	}

	var rows []statusCount
	if err := cur.All(ctx, &rows); err != nil {
		return model.AssetStats{}, mongoerr.Wrap(op, err)
	}

	var stats model.AssetStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case model.StatusStore:
			stats.Store += row.Count
		case model.StatusUsed:
			stats.Used += row.Count
		case model.StatusRepair:
			stats.Repair += row.Count
		}
	}

	return stats, nil
}

// Detach clears the holder of asset id, but only while it is still held by
// employeeID. It reports whether a document was changed.
func (r *repository) Detach(ctx context.Context, id, employeeID string) (bool, error) {
	const op = "asset.repository.Detach"

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "assigned_to": employeeID},
		detachUpdate(),
	)
	if err != nil {
		return false, mongoerr.Wrap(op, err)
	}

	return res.ModifiedCount > 0, nil
}

// DetachAllFrom clears every asset of this kind held by employeeID and returns
// the ids it touched.
func (r *repository) DetachAllFrom(ctx context.Context, employeeID string) ([]string, error) {
	const op = "asset.repository.DetachAllFrom"

	held, err := r.List(ctx, model.AssetsFilter{AssignedTo: employeeID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(held) == 0 {
		return nil, nil
	}

	if _, err := r.coll.UpdateMany(ctx,
		bson.M{"assigned_to": employeeID},
		detachUpdate(),
	); err != nil {
		return nil, mongoerr.Wrap(op, err)
	}

	return lo.Map(held, func(a *model.Asset, _ int) string { return a.ID }), nil
}

func detachUpdate() bson.M {
	return bson.M{
		"$set": bson.M{
			"assigned_to": nil,
			"status":      model.StatusStore,
			"updatedAt":   time.Now().UTC(),
		},
		"$inc": bson.M{"version": int64(1)},
	}
}
