package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

// RepairAsset makes one asset and the employees pointing at it agree. The
// asset's assigned_to wins, unless its holder already holds another asset of
// the same kind that points back. An asset with a pending intent younger than
// the grace period is skipped.
func (s *service) RepairAsset(ctx context.Context, kind model.Kind, id string) ([]model.RepairAction, error) {
	const op = "reconcile.service.RepairAsset"

	repo, err := s.assetRepo(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	rec, err := s.newEventRecorder(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repairAsset(ctx, kind, repo, id, rec); err != nil {
		logger.Error(ctx, "repair asset",
			logger.String("kind", string(kind)),
			logger.String("asset_id", id),
			logger.ErrorF(err),
		)
		return rec.actions, fmt.Errorf("%s: %w", op, err)
	}

	return rec.actions, nil
}

func (s *service) repairAsset(ctx context.Context, kind model.Kind, repo AssetRepository, id string, rec *recorder) error {
	if rec.deferred(kind, id, "") {
		return nil
	}

	a, err := repo.AssetByID(ctx, id)
	if errors.Is(err, model.ErrAssetNotFound) {
		return s.releaseOthers(ctx, kind, id, "", rec, "asset does not exist")
	}
	if err != nil {
		return err
	}

	holder := a.Holder()
	switch {
	case holder == "" && a.Status == model.StatusUsed:
		if _, err := repo.Update(ctx, a.ID, a.Version, model.AssetWrite{Status: model.StatusStore}); err != nil {
			return fmt.Errorf("store unheld %s: %w", a.ID, err)
		}
		rec.add(kind, a.ID, "", ActionStoreUnheld, "USED without a holder")
	case holder != "" && a.Status != model.StatusUsed:
		if _, err := repo.Update(ctx, a.ID, a.Version, model.AssetWrite{Status: a.Status}); err != nil {
			return fmt.Errorf("detach %s: %w", a.ID, err)
		}
		rec.add(kind, a.ID, holder, ActionDetachUnused, "holder set on a "+string(a.Status)+" asset")
		holder = ""
	}

	if holder != "" {
		if holder, err = s.reciprocate(ctx, kind, repo, a, rec); err != nil {
			return err
		}
	}

	return s.releaseOthers(ctx, kind, a.ID, holder, rec, "asset is held by someone else")
}

// reciprocate makes the holder of a point back at it and returns the holder
// that remains, which is empty when a was detached.
func (s *service) reciprocate(
	ctx context.Context,
	kind model.Kind,
	repo AssetRepository,
	a *model.Asset,
	rec *recorder,
) (string, error) {
	holder := a.Holder()

	emp, err := s.employees.EmployeeByID(ctx, holder)
	if errors.Is(err, model.ErrEmployeeNotFound) {
		ok, err := repo.Detach(ctx, a.ID, holder)
		if err != nil {
			return "", fmt.Errorf("detach %s from missing %s: %w", a.ID, holder, err)
		}
		if ok {
			rec.add(kind, a.ID, holder, ActionDetachMissing, "holder does not exist")
		}
		return "", nil
	}
	if err != nil {
		return "", err
	}

	h, holds := emp.Holding(kind)
	if holds && h.AssetID == a.ID {
		if h.Status != model.StatusUsed {
			ok, err := s.employees.SyncStatus(ctx, holder, kind, a.ID, model.StatusUsed)
			if err != nil {
				return "", fmt.Errorf("sync status of %s: %w", holder, err)
			}
			if ok {
				rec.add(kind, a.ID, holder, ActionSyncStatus, "cached status was "+string(h.Status))
			}
		}
		return holder, nil
	}

	if holds {
		other, err := repo.AssetByID(ctx, h.AssetID)
		if err != nil && !errors.Is(err, model.ErrAssetNotFound) {
			return "", err
		}
		if err == nil && other.Holder() == holder {
			ok, err := repo.Detach(ctx, a.ID, holder)
			if err != nil {
				return "", fmt.Errorf("detach %s from %s: %w", a.ID, holder, err)
			}
			if ok {
				rec.add(kind, a.ID, holder, ActionDetachReplaced, "holder has "+other.ID)
			}
			return "", nil
		}
	}

	if _, err := s.employees.Claim(ctx, holder, kind, a.ID); err != nil {
		return "", fmt.Errorf("claim %s for %s: %w", a.ID, holder, err)
	}
	rec.add(kind, a.ID, holder, ActionClaim, "holder did not reference the asset")

	return holder, nil
}

// releaseOthers clears the reference to assetID on every employee except keep.
func (s *service) releaseOthers(
	ctx context.Context,
	kind model.Kind,
	assetID, keep string,
	rec *recorder,
	reason string,
) error {
	emps, err := s.employees.ListHolding(ctx, kind, assetID)
	if err != nil {
		return fmt.Errorf("list holding %s: %w", assetID, err)
	}

	for _, e := range emps {
		if e.ID == keep {
			continue
		}
		ok, err := s.employees.Release(ctx, e.ID, kind, assetID)
		if err != nil {
			return fmt.Errorf("release %s from %s: %w", assetID, e.ID, err)
		}
		if ok {
			rec.add(kind, assetID, e.ID, ActionRelease, reason)
		}
	}

	return nil
}
