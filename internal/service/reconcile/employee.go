package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

// RepairEmployee clears references the referenced asset does not return and
// repairs every asset that names the employee as holder.
func (s *service) RepairEmployee(ctx context.Context, id string) ([]model.RepairAction, error) {
	const op = "reconcile.service.RepairEmployee"

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	rec, err := s.newEventRecorder(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repairEmployee(ctx, id, rec); err != nil {
		logger.Error(ctx, "repair employee", logger.String("employee_id", id), logger.ErrorF(err))
		return rec.actions, fmt.Errorf("%s: %w", op, err)
	}

	return rec.actions, nil
}

func (s *service) repairEmployee(ctx context.Context, id string, rec *recorder) error {
	emp, err := s.employees.EmployeeByID(ctx, id)
	if errors.Is(err, model.ErrEmployeeNotFound) {
		return s.detachFromMissing(ctx, id, rec)
	}
	if err != nil {
		return err
	}

	for _, kind := range model.Kinds() {
		repo, ok := s.assets[kind]
		if !ok {
			continue
		}

		h, holds := emp.Holding(kind)
		switch {
		case !holds, rec.deferred(kind, h.AssetID, emp.ID):
		default:
			a, err := repo.AssetByID(ctx, h.AssetID)
			if err != nil && !errors.Is(err, model.ErrAssetNotFound) {
				return err
			}
			if err == nil && a.Holder() == emp.ID {
				if err := s.repairAsset(ctx, kind, repo, a.ID, rec); err != nil {
					return err
				}
				break
			}
			released, err := s.employees.Release(ctx, emp.ID, kind, h.AssetID)
			if err != nil {
				return fmt.Errorf("release %s from %s: %w", h.AssetID, emp.ID, err)
			}
			if released {
				rec.add(kind, h.AssetID, emp.ID, ActionRelease, "asset does not reference the employee")
			}
		}

		held, err := repo.List(ctx, model.AssetsFilter{AssignedTo: emp.ID})
		if err != nil {
			return fmt.Errorf("list %s held by %s: %w", kind, emp.ID, err)
		}
		for _, a := range held {
			if holds && a.ID == h.AssetID {
				continue
			}
			if err := s.repairAsset(ctx, kind, repo, a.ID, rec); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *service) detachFromMissing(ctx context.Context, id string, rec *recorder) error {
	for _, kind := range model.Kinds() {
		repo, ok := s.assets[kind]
		if !ok {
			continue
		}
		ids, err := repo.DetachAllFrom(ctx, id)
		if err != nil {
			return fmt.Errorf("detach %s from %s: %w", kind, id, err)
		}
		for _, assetID := range ids {
			rec.add(kind, assetID, id, ActionDetachMissing, "holder does not exist")
		}
	}
	return nil
}
