package converter

import (
	"fmt"
	"strings"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/transport/http/dto"
)

const (
	fieldEmployeeName   = "employee_name"
	fieldDepartment     = "department"
	fieldEmploymentType = "employment_type"
	fieldTempEndDate    = "temp_end_date"
	fieldStatus         = "status"
)

// assetRefs reads every <kind>_id key of f.
func assetRefs(f dto.Fields) (map[model.Kind]model.Reference, error) {
	refs := make(map[model.Kind]model.Reference)
	for _, key := range f.Keys("_id") {
		kind, err := model.ParseKind(strings.TrimSuffix(key, "_id"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		set, id, err := f.Ref(key)
		if err != nil {
			return nil, err
		}
		refs[kind] = model.Reference{Set: set, ID: id}
	}
	return refs, nil
}

func profileFromFields(f dto.Fields) (model.EmployeeProfile, error) {
	var (
		p   model.EmployeeProfile
		err error
	)

	if p.Name, err = f.String(fieldEmployeeName); err != nil {
		return p, err
	}
	if p.Department, err = f.String(fieldDepartment); err != nil {
		return p, err
	}
	if p.TempEndDate, err = f.Time(fieldTempEndDate); err != nil {
		return p, err
	}

	et, err := f.String(fieldEmploymentType)
	if err != nil {
		return p, err
	}
	if et != nil {
		v := model.EmploymentType(strings.TrimSpace(*et))
		p.EmploymentType = &v
	}

	st, err := f.String(fieldStatus)
	if err != nil {
		return p, err
	}
	if st != nil {
		v := model.EmployeeStatus(strings.TrimSpace(*st))
		p.Status = &v
	}

	return p, nil
}

func CreateEmployeeRequestToParams(f dto.Fields) (model.CreateEmployeeParams, error) {
	p, err := profileFromFields(f)
	if err != nil {
		return model.CreateEmployeeParams{}, err
	}
	refs, err := assetRefs(f)
	if err != nil {
		return model.CreateEmployeeParams{}, err
	}

	out := model.CreateEmployeeParams{
		TempEndDate: p.TempEndDate,
		Assets:      make(map[model.Kind]string, len(refs)),
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Department != nil {
		out.Department = *p.Department
	}
	if p.EmploymentType != nil {
		out.EmploymentType = *p.EmploymentType
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	for kind, ref := range refs {
		if ref.ID != "" {
			out.Assets[kind] = ref.ID
		}
	}

	return out, nil
}

func UpdateEmployeeRequestToParams(id string, f dto.Fields) (model.UpdateEmployeeParams, error) {
	p, err := profileFromFields(f)
	if err != nil {
		return model.UpdateEmployeeParams{}, err
	}
	refs, err := assetRefs(f)
	if err != nil {
		return model.UpdateEmployeeParams{}, err
	}

	return model.UpdateEmployeeParams{ID: id, Profile: p, Assets: refs}, nil
}

func EmployeeToDTO(e *model.Employee) dto.Employee {
	out := dto.Employee{
		"id":                e.ID,
		fieldEmployeeName:   e.Name,
		fieldDepartment:     e.Department,
		fieldEmploymentType: string(e.EmploymentType),
		fieldStatus:         string(e.Status),
	}
	if e.TempEndDate != nil {
		out[fieldTempEndDate] = e.TempEndDate.Format(dto.DateLayout)
	}
	if e.CreatedAt != nil {
		out["createdAt"] = *e.CreatedAt
	}
	if e.UpdatedAt != nil {
		out["updatedAt"] = *e.UpdatedAt
	}

	for _, kind := range model.Kinds() {
		if h, ok := e.Holding(kind); ok {
			out[kind.IDField()] = h.AssetID
		}
		out[kind.StatusField()] = string(e.HoldingStatus(kind))
	}

	return out
}

func EmployeesToDTO(in []*model.Employee) []dto.Employee {
	out := make([]dto.Employee, 0, len(in))
	for _, e := range in {
		out = append(out, EmployeeToDTO(e))
	}
	return out
}
