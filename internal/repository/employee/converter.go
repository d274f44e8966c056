package repository

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/you-humble/asset-tracker/internal/model"
)

func EntityToModel(e *EmployeeEntity) *model.Employee {
	if e == nil {
		return nil
	}

	out := &model.Employee{
		ID:             e.ID,
		Name:           e.Name,
		Department:     e.Department,
		EmploymentType: e.EmploymentType,
		TempEndDate:    e.TempEndDate,
		Status:         e.Status,
		Holdings:       make(map[model.Kind]model.Holding),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}

	for _, kind := range model.Kinds() {
		assetID, _ := e.Holdings[kind.IDField()].(string)
		status, _ := e.Holdings[kind.StatusField()].(string)
		if assetID == "" && status == "" {
			continue
		}
		h := model.Holding{AssetID: assetID, Status: model.Status(status)}
		if h.Status == "" {
			h.Status = model.StatusStore
		}
		out.Holdings[kind] = h
	}

	return out
}

func EntityFromModel(m *model.Employee) *EmployeeEntity {
	if m == nil {
		return nil
	}

	out := &EmployeeEntity{
		ID:             m.ID,
		Name:           m.Name,
		Department:     m.Department,
		EmploymentType: m.EmploymentType,
		TempEndDate:    m.TempEndDate,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		Holdings:       make(map[string]any),
	}

	for kind, h := range m.Holdings {
		if h.AssetID == "" {
			continue
		}
		out.Holdings[kind.IDField()] = h.AssetID
		out.Holdings[kind.StatusField()] = string(h.Status)
	}

	return out
}

func BuildProfileSet(p model.EmployeeProfile) bson.M {
	set := bson.M{}

	if p.Name != nil {
		set["employee_name"] = *p.Name
	}
	if p.Department != nil {
		set["department"] = *p.Department
	}
	if p.EmploymentType != nil {
		set["employment_type"] = *p.EmploymentType
	}
	if p.TempEndDate != nil {
		set["temp_end_date"] = *p.TempEndDate
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}

	return set
}

// holdingAbsent matches documents where kind has no asset reference.
func holdingAbsent(kind model.Kind) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{kind.IDField(): bson.M{"$exists": false}},
		bson.M{kind.IDField(): nil},
		bson.M{kind.IDField(): ""},
	}}
}
