package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

// decideFunc computes the write for the asset as currently stored.
type decideFunc func(cur *model.Asset) (model.AssetWrite, error)

// updateWithRetry re-reads the asset and re-runs the whole step sequence
// whenever the conditional asset write loses a race.
func (s *service) updateWithRetry(
	ctx context.Context,
	kind model.Kind,
	repo AssetRepository,
	id string,
	decide decideFunc,
) (*model.Asset, error) {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		cur, rerr := repo.AssetByID(ctx, id)
		if rerr != nil {
			return nil, rerr
		}

		w, derr := decide(cur)
		if derr != nil {
			return nil, derr
		}

		var res *model.Asset
		res, err = s.move(ctx, kind, repo, cur, w)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return nil, err
		}

		s.metrics.ObserveConflict(kind)
		logger.Warn(ctx, "asset changed concurrently",
			logger.String("asset_id", id),
			logger.Int("attempt", attempt),
		)
	}

	return nil, err
}

// move takes asset cur to w. Order: release the old holder, write the asset,
// claim the new holder, detach what the new holder held of this kind before.
// An unchanged holder is claimed again so a lost back reference heals.
// Nothing is rolled back; the first failing step's error is returned.
func (s *service) move(
	ctx context.Context,
	kind model.Kind,
	repo AssetRepository,
	cur *model.Asset,
	w model.AssetWrite,
) (*model.Asset, error) {
	from, to := cur.Holder(), lo.FromPtr(w.AssignedTo)

	t, err := planTransition(ctx, cur, w)
	if err != nil {
		return nil, err
	}

	var j *journalEntry
	if from != to {
		j, err = s.begin(ctx, model.Intent{
			Kind:       kind,
			AssetID:    cur.ID,
			From:       from,
			To:         to,
			Transition: t,
		})
		if err != nil {
			return nil, err
		}
	}
	failed := true
	defer func() { s.finish(ctx, j, failed) }()

	if from != "" && from != to {
		if _, err := s.employees.Release(ctx, from, kind, cur.ID); err != nil {
			return nil, fmt.Errorf("release %s: %w", from, err)
		}
		s.step(ctx, j, "release "+from)
	}

	updated, err := repo.Update(ctx, cur.ID, cur.Version, w)
	if err != nil {
		return nil, err
	}
	s.step(ctx, j, "write "+cur.ID)

	if to != "" {
		if err := s.claim(ctx, kind, repo, to, cur.ID, j); err != nil {
			return nil, err
		}
	}

	failed = false
	if from != to {
		s.publish(ctx, kind, cur.ID, from, to, t)
	}

	return updated, nil
}

// claim points employeeID at assetID and detaches the asset it replaced.
func (s *service) claim(
	ctx context.Context,
	kind model.Kind,
	repo AssetRepository,
	employeeID, assetID string,
	j *journalEntry,
) error {
	prev, err := s.employees.Claim(ctx, employeeID, kind, assetID)
	if err != nil {
		return fmt.Errorf("claim %s: %w", employeeID, err)
	}
	s.step(ctx, j, "claim "+employeeID)

	if prev.AssetID == "" || prev.AssetID == assetID {
		return nil
	}

	detached, err := repo.Detach(ctx, prev.AssetID, employeeID)
	if err != nil {
		return fmt.Errorf("detach %s: %w", prev.AssetID, err)
	}
	s.step(ctx, j, "detach "+prev.AssetID)

	if detached {
		s.publish(ctx, kind, prev.AssetID, employeeID, "", model.TransitionRelease)
	}

	return nil
}

// assignTo makes employeeID the holder of asset assetID from the employee side.
func (s *service) assignTo(ctx context.Context, kind model.Kind, assetID, employeeID string) error {
	repo, err := s.assetRepo(kind)
	if err != nil {
		return err
	}

	cur, err := repo.AssetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if cur.Holder() == employeeID && cur.Status == model.StatusUsed {
		// the asset already agrees; only the back reference may be missing
		return s.claim(ctx, kind, repo, employeeID, assetID, nil)
	}

	_, err = s.updateWithRetry(ctx, kind, repo, assetID, func(*model.Asset) (model.AssetWrite, error) {
		return model.AssetWrite{
			Status:     model.StatusUsed,
			AssignedTo: lo.ToPtr(employeeID),
		}, nil
	})

	return err
}

// unassign detaches asset assetID from employeeID from the employee side.
// The asset is written first so that an interrupted sequence leaves only a
// dangling employee reference behind.
func (s *service) unassign(ctx context.Context, kind model.Kind, assetID, employeeID string) error {
	repo, err := s.assetRepo(kind)
	if err != nil {
		return err
	}

	j, err := s.begin(ctx, model.Intent{
		Kind:       kind,
		AssetID:    assetID,
		From:       employeeID,
		Transition: model.TransitionRelease,
	})
	if err != nil {
		return err
	}
	failed := true
	defer func() { s.finish(ctx, j, failed) }()

	detached, err := repo.Detach(ctx, assetID, employeeID)
	if err != nil {
		return fmt.Errorf("detach %s: %w", assetID, err)
	}
	s.step(ctx, j, "detach "+assetID)

	if _, err := s.employees.Release(ctx, employeeID, kind, assetID); err != nil {
		return fmt.Errorf("release %s: %w", employeeID, err)
	}
	s.step(ctx, j, "release "+employeeID)

	failed = false
	if detached {
		s.publish(ctx, kind, assetID, employeeID, "", model.TransitionRelease)
	}

	return nil
}
