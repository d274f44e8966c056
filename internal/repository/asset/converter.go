package repository

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/you-humble/asset-tracker/internal/model"
)

func EntityToModel(kind model.Kind, e *AssetEntity) *model.Asset {
	if e == nil {
		return nil
	}

	out := &model.Asset{
		ID:        e.ID,
		Kind:      kind,
		Brand:     e.Brand,
		Model:     e.Model,
		SerialNo:  e.SerialNo,
		RAM:       e.RAM,
		SSD:       e.SSD,
		Gen:       e.Gen,
		Series:    e.Series,
		Status:    e.Status,
		Version:   e.Version,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.AssignedTo != nil && *e.AssignedTo != "" {
		holder := *e.AssignedTo
		out.AssignedTo = &holder
	}

	return out
}

func EntityFromModel(a *model.Asset) *AssetEntity {
	if a == nil {
		return nil
	}

	return &AssetEntity{
		ID:         a.ID,
		Brand:      a.Brand,
		Model:      a.Model,
		SerialNo:   a.SerialNo,
		RAM:        a.RAM,
		SSD:        a.SSD,
		Gen:        a.Gen,
		Series:     a.Series,
		Status:     a.Status,
		AssignedTo: a.AssignedTo,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// BuildSetDocument turns a write into the $set part of an update.
func BuildSetDocument(w model.AssetWrite) bson.M {
	set := bson.M{
		"status":      w.Status,
		"assigned_to": w.AssignedTo,
	}

	attrs := map[model.Field]*string{
		model.FieldBrand:    w.Attributes.Brand,
		model.FieldModel:    w.Attributes.Model,
		model.FieldSerialNo: w.Attributes.SerialNo,
		model.FieldRAM:      w.Attributes.RAM,
		model.FieldSSD:      w.Attributes.SSD,
		model.FieldGen:      w.Attributes.Gen,
		model.FieldSeries:   w.Attributes.Series,
	}
	for f, v := range attrs {
		if v != nil {
			set[string(f)] = *v
		}
	}

	return set
}

// BuildVersionFilter matches asset id at version. Documents written before
// versioning carry no version field and decode as version 0, so 0 also
// matches a missing field.
func BuildVersionFilter(id string, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": id, "version": bson.M{"$in": bson.A{int64(0), nil}}}
	}
	return bson.M{"_id": id, "version": version}
}

func BuildMongoFilter(f model.AssetsFilter) bson.M {
	q := bson.M{}

	if len(f.Statuses) > 0 {
		q["status"] = bson.M{"$in": f.Statuses}
	}
	if f.AssignedTo != "" {
		q["assigned_to"] = f.AssignedTo
	}

	return q
}
