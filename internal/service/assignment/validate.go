package service

import (
	"fmt"
	"strings"

	"github.com/you-humble/asset-tracker/internal/model"
)

func validateAttributes(spec model.KindSpec, attrs model.Attributes, creating bool) error {
	for _, f := range spec.Required {
		v := attrs.Get(f)
		switch {
		case creating && (v == nil || strings.TrimSpace(*v) == ""):
			return fmt.Errorf("%w: %s is required for %s", model.ErrValidation, f, spec.Kind)
		case !creating && v != nil && strings.TrimSpace(*v) == "":
			return fmt.Errorf("%w: %s cannot be empty for %s", model.ErrValidation, f, spec.Kind)
		}
	}
	return nil
}

func checkStatus(st *model.Status) error {
	if st == nil {
		return nil
	}
	_, err := model.ParseStatus(string(*st))
	return err
}

// createStatus derives the initial status; USED goes together with a holder.
func createStatus(p model.CreateAssetParams) (model.Status, error) {
	if err := checkStatus(p.Status); err != nil {
		return "", err
	}

	if p.Status == nil {
		if p.AssignedTo != "" {
			return model.StatusUsed, nil
		}
		return model.StatusStore, nil
	}

	switch st := *p.Status; {
	case st == model.StatusUsed && p.AssignedTo == "":
		return "", fmt.Errorf("%w: status %s requires assigned_to", model.ErrValidation, st)
	case st != model.StatusUsed && p.AssignedTo != "":
		return "", fmt.Errorf("%w: asset with status %s cannot be assigned", model.ErrValidation, st)
	default:
		return st, nil
	}
}

// resolveUpdate merges p into the stored asset. A status change to REPAIR or
// STORE without an explicit assigned_to detaches the holder.
func resolveUpdate(cur *model.Asset, p model.UpdateAssetParams) (model.AssetWrite, error) {
	to := cur.Holder()
	if p.AssignedTo.Set {
		to = strings.TrimSpace(p.AssignedTo.ID)
	}

	status := cur.Status
	if p.Status != nil {
		status = *p.Status
		if status != model.StatusUsed && !p.AssignedTo.Set {
			to = ""
		}
	}

	switch {
	case p.Status != nil && status == model.StatusUsed && to == "":
		return model.AssetWrite{}, fmt.Errorf("%w: status %s requires assigned_to", model.ErrValidation, status)
	case p.Status != nil && status != model.StatusUsed && to != "":
		return model.AssetWrite{}, fmt.Errorf("%w: asset with status %s cannot be assigned", model.ErrValidation, status)
	}

	w := model.AssetWrite{Attributes: p.Attributes, StatusSet: p.Status != nil}
	switch {
	case to != "":
		w.Status = model.StatusUsed
		w.AssignedTo = &to
	case status == model.StatusUsed:
		w.Status = model.StatusStore
	default:
		w.Status = status
	}

	return w, nil
}

func normalizeNewEmployee(p *model.CreateEmployeeParams) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: employee_name is required", model.ErrValidation)
	}

	if p.EmploymentType == "" {
		p.EmploymentType = model.EmploymentPermanent
	}
	if _, err := model.ParseEmploymentType(string(p.EmploymentType)); err != nil {
		return err
	}
	if p.EmploymentType == model.EmploymentTemporary && p.TempEndDate == nil {
		return fmt.Errorf("%w: temp_end_date is required for temporary employment", model.ErrValidation)
	}

	if p.Status == "" {
		p.Status = model.EmployeeActive
	}
	if _, err := model.ParseEmployeeStatus(string(p.Status)); err != nil {
		return err
	}

	for kind, id := range p.Assets {
		if _, err := model.SpecOf(kind); err != nil {
			return err
		}
		if strings.TrimSpace(id) == "" {
			delete(p.Assets, kind)
		}
	}
	if len(p.Assets) > 0 && p.Status != model.EmployeeActive {
		return fmt.Errorf("%w: inactive employee cannot hold assets", model.ErrValidation)
	}

	return nil
}

func validateProfile(p model.EmployeeProfile) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: employee_name cannot be empty", model.ErrValidation)
	}
	if p.EmploymentType != nil {
		if _, err := model.ParseEmploymentType(string(*p.EmploymentType)); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if _, err := model.ParseEmployeeStatus(string(*p.Status)); err != nil {
			return err
		}
	}
	return nil
}

// orderedKinds returns the kinds present in m in the canonical kind order.
func orderedKinds[V any](m map[model.Kind]V) []model.Kind {
	out := make([]model.Kind, 0, len(m))
	for _, k := range model.Kinds() {
		if _, ok := m[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
