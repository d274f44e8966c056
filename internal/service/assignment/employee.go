package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

func (s *service) CreateEmployee(ctx context.Context, p model.CreateEmployeeParams) (*model.Employee, error) {
	const op = "assignment.service.CreateEmployee"
	log := logger.With(logger.Int("assets", len(p.Assets)))

	if err := normalizeNewEmployee(&p); err != nil {
		return nil, s.fail(ctx, log, op, "validation", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	kinds := orderedKinds(p.Assets)
	for _, kind := range kinds {
		if err := s.ensureClaimable(ctx, kind, p.Assets[kind], ""); err != nil {
			return nil, s.fail(ctx, log, op, "referenced asset", err)
		}
	}

	id, err := s.ids.NextEmployeeID(ctx)
	if err != nil {
		return nil, s.fail(ctx, log, op, "next employee id", err)
	}
	log = log.With(logger.String("employee_id", id))

	emp := &model.Employee{
		ID:             id,
		Name:           p.Name,
		Department:     strings.TrimSpace(p.Department),
		EmploymentType: p.EmploymentType,
		TempEndDate:    p.TempEndDate,
		Status:         p.Status,
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, s.fail(ctx, log, op, "repository create", err)
	}

	for _, kind := range kinds {
		if err := s.assignTo(ctx, kind, p.Assets[kind], id); err != nil {
			return nil, s.fail(ctx, log, op, "assign "+string(kind), err)
		}
	}

	if len(kinds) == 0 {
		log.Info(ctx, "employee created")
		return emp, nil
	}

	out, err := s.employees.EmployeeByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, log, op, "repository employee by id", err)
	}

	log.Info(ctx, "employee created")
	return out, nil
}

func (s *service) UpdateEmployee(ctx context.Context, p model.UpdateEmployeeParams) (*model.Employee, error) {
	const op = "assignment.service.UpdateEmployee"
	log := logger.With(logger.String("employee_id", p.ID))

	if strings.TrimSpace(p.ID) == "" {
		return nil, s.fail(ctx, log, op, "validation", fmt.Errorf("%w: employee id is empty", model.ErrValidation))
	}
	if err := validateProfile(p.Profile); err != nil {
		return nil, s.fail(ctx, log, op, "validation", err)
	}
	for kind := range p.Assets {
		if _, err := model.SpecOf(kind); err != nil {
			return nil, s.fail(ctx, log, op, "validation", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	cur, err := s.employees.EmployeeByID(ctx, p.ID)
	if err != nil {
		return nil, s.fail(ctx, log, op, "repository employee by id", err)
	}

	if err := checkEffectiveProfile(cur, p); err != nil {
		return nil, s.fail(ctx, log, op, "validation", err)
	}

	kinds := orderedKinds(p.Assets)
	for _, kind := range kinds {
		ref := p.Assets[kind]
		if !ref.Set || ref.ID == "" {
			continue
		}
		if err := s.ensureClaimable(ctx, kind, ref.ID, p.ID); err != nil {
			return nil, s.fail(ctx, log, op, "referenced asset", err)
		}
	}

	if !p.Profile.Empty() {
		if cur, err = s.employees.Update(ctx, p.ID, p.Profile); err != nil {
			return nil, s.fail(ctx, log, op, "repository update", err)
		}
	}

	for _, kind := range kinds {
		ref := p.Assets[kind]
		if !ref.Set {
			continue
		}

		held, _ := cur.Holding(kind)
		switch {
		case ref.ID == "" && held.AssetID != "":
			err = s.unassign(ctx, kind, held.AssetID, p.ID)
		case ref.ID == "":
			continue
		default:
			err = s.assignTo(ctx, kind, ref.ID, p.ID)
		}
		if err != nil {
			return nil, s.fail(ctx, log, op, string(kind)+" assignment", err)
		}
	}

	out, err := s.employees.EmployeeByID(ctx, p.ID)
	if err != nil {
		return nil, s.fail(ctx, log, op, "repository employee by id", err)
	}

	return out, nil
}

func (s *service) DeleteEmployee(ctx context.Context, id string) error {
	const op = "assignment.service.DeleteEmployee"
	log := logger.With(logger.String("employee_id", id))

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	if _, err := s.employees.EmployeeByID(ctx, id); err != nil {
		return s.fail(ctx, log, op, "repository employee by id", err)
	}

	for _, kind := range model.Kinds() {
		repo, err := s.assetRepo(kind)
		if err != nil {
			return s.fail(ctx, log, op, "asset store", err)
		}

		detached, err := repo.DetachAllFrom(ctx, id)
		if err != nil {
			return s.fail(ctx, log, op, "detach "+string(kind), err)
		}
		for _, assetID := range detached {
			s.publish(ctx, kind, assetID, id, "", model.TransitionRelease)
		}
	}

	if err := s.employees.Delete(ctx, id); err != nil {
		return s.fail(ctx, log, op, "repository delete", err)
	}

	log.Info(ctx, "employee deleted")
	return nil
}

// ensureClaimable checks that assetID exists and can be handed to an
// employee. Assets already held by employeeID always pass.
func (s *service) ensureClaimable(ctx context.Context, kind model.Kind, assetID, employeeID string) error {
	repo, err := s.assetRepo(kind)
	if err != nil {
		return err
	}

	a, err := repo.AssetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if employeeID != "" && a.Holder() == employeeID {
		return nil
	}

	return checkAssignable(ctx, a)
}

func checkEffectiveProfile(cur *model.Employee, p model.UpdateEmployeeParams) error {
	empType := cur.EmploymentType
	if p.Profile.EmploymentType != nil {
		empType = *p.Profile.EmploymentType
	}
	tempEnd := cur.TempEndDate
	if p.Profile.TempEndDate != nil {
		tempEnd = p.Profile.TempEndDate
	}
	if empType == model.EmploymentTemporary && tempEnd == nil {
		return fmt.Errorf("%w: temp_end_date is required for temporary employment", model.ErrValidation)
	}

	status := cur.Status
	if p.Profile.Status != nil {
		status = *p.Profile.Status
	}
	if status == model.EmployeeActive {
		return nil
	}
	for _, ref := range p.Assets {
		if ref.Set && ref.ID != "" {
			return fmt.Errorf("%w: inactive employee cannot hold assets", model.ErrValidation)
		}
	}

	return nil
}
