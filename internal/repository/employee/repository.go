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
	coll *mongo.Collection
}

func NewEmployeeRepository(collection *mongo.Collection) *repository {
	return &repository{coll: collection}
}

func (r *repository) Create(ctx context.Context, e *model.Employee) error {
	const op = "employee.repository.Create"

	if e == nil || e.ID == "" {
		return fmt.Errorf("%s: employee id is empty", op)
	}

	now := time.Now().UTC()
	e.CreatedAt = lo.ToPtr(now)
	e.UpdatedAt = lo.ToPtr(now)

	if _, err := r.coll.InsertOne(ctx, EntityFromModel(e)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w: id %s already taken", op, model.ErrConflict, e.ID)
		}
		return mongoerr.Wrap(op, err)
	}

	return nil
}

func (r *repository) EmployeeByID(ctx context.Context, id string) (*model.Employee, error) {
	const op = "employee.repository.EmployeeByID"

	var ent EmployeeEntity
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", model.ErrEmployeeNotFound, id)
		}
		return nil, mongoerr.Wrap(op, err)
	}

	return EntityToModel(&ent), nil
}

// Update writes the supplied profile fields. Holdings are never touched here.
func (r *repository) Update(ctx context.Context, id string, p model.EmployeeProfile) (*model.Employee, error) {
	const op = "employee.repository.Update"

	set := BuildProfileSet(p)
	set["updatedAt"] = time.Now().UTC()

	var ent EmployeeEntity
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", model.ErrEmployeeNotFound, id)
		}
		return nil, mongoerr.Wrap(op, err)
	}

	return EntityToModel(&ent), nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	const op = "employee.repository.Delete"

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoerr.Wrap(op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", model.ErrEmployeeNotFound, id)
	}

	return nil
}

func (r *repository) List(ctx context.Context) ([]*model.Employee, error) {
	const op = "employee.repository.List"
	return r.find(ctx, op, bson.M{})
}

// ListAvailableFor returns active employees without an asset of kind.
func (r *repository) ListAvailableFor(ctx context.Context, kind model.Kind) ([]*model.Employee, error) {
	const op = "employee.repository.ListAvailableFor"

	filter := holdingAbsent(kind)
	filter["status"] = model.EmployeeActive

	return r.find(ctx, op, filter)
}

// ListHolding returns every employee whose reference for kind is assetID.
func (r *repository) ListHolding(ctx context.Context, kind model.Kind, assetID string) ([]*model.Employee, error) {
	const op = "employee.repository.ListHolding"
	return r.find(ctx, op, bson.M{kind.IDField(): assetID})
}

// Claim points the employee's reference for kind at assetID and returns the
// holding it replaced, if any.
func (r *repository) Claim(
	ctx context.Context,
	id string,
	kind model.Kind,
	assetID string,
) (model.Holding, error) {
	const op = "employee.repository.Claim"

	var prev EmployeeEntity
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			kind.IDField():     assetID,
			kind.StatusField(): model.StatusUsed,
			"updatedAt":        time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&prev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Holding{}, fmt.Errorf("%w: %s", model.ErrEmployeeNotFound, id)
		}
		return model.Holding{}, mongoerr.Wrap(op, err)
	}

	h, _ := EntityToModel(&prev).Holding(kind)
	return h, nil
}

// Release clears the reference for kind only while it still names assetID.
// A mismatch or a missing employee is not an error.
func (r *repository) Release(ctx context.Context, id string, kind model.Kind, assetID string) (bool, error) {
	const op = "employee.repository.Release"

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, kind.IDField(): assetID},
		bson.M{
			"$unset": bson.M{kind.IDField(): ""},
			"$set": bson.M{
				kind.StatusField(): model.StatusStore,
				"updatedAt":        time.Now().UTC(),
			},
		},
	)
	if err != nil {
		return false, mongoerr.Wrap(op, err)
	}

	return res.ModifiedCount > 0, nil
}

// SyncStatus rewrites the cached status for kind while the reference still
// names assetID.
func (r *repository) SyncStatus(
	ctx context.Context,
	id string,
	kind model.Kind,
	assetID string,
	status model.Status,
) (bool, error) {
	const op = "employee.repository.SyncStatus"

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, kind.IDField(): assetID},
		bson.M{"$set": bson.M{
			kind.StatusField(): status,
			"updatedAt":        time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, mongoerr.Wrap(op, err)
	}

	return res.ModifiedCount > 0, nil
}

func (r *repository) find(ctx context.Context, op string, filter bson.M) ([]*model.Employee, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, mongoerr.Wrap(op, err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			logger.Warn(ctx, "failed to close cursor", logger.String("op", op), logger.ErrorF(cerr))
		}
	}()

	out := make([]*model.Employee, 0)
	for cur.Next(ctx) {
		var ent EmployeeEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, fmt.Errorf("%s decode: %w", op, err)
		}
		out = append(out, EntityToModel(&ent))
	}
	if err := cur.Err(); err != nil {
		return nil, mongoerr.Wrap(op+" cursor", err)
	}

	return out, nil
}
