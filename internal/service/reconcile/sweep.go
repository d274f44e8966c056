package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

// Sweep repairs the participants of stale pending intents, then checks every
// asset of every kind and every employee. Individual failures do not stop the
// sweep; they are joined into the returned error.
func (s *service) Sweep(ctx context.Context) (*model.ReconcileReport, error) {
	const op = "reconcile.service.Sweep"

	report := &model.ReconcileReport{StartedAt: time.Now().UTC()}
	rec := &recorder{metrics: s.metrics}
	var errs []error

	stale, err := s.listStale(ctx, report.StartedAt.Add(-s.intentGrace))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, in := range stale {
		if err := s.repairIntent(ctx, in, rec); err != nil {
			errs = append(errs, fmt.Errorf("intent %s: %w", in.ID, err))
			continue
		}
		report.IntentsResolved++
	}

	for _, kind := range model.Kinds() {
		repo, ok := s.assets[kind]
		if !ok {
			continue
		}

		all, err := s.listAssets(ctx, repo)
		if err != nil {
			errs = append(errs, fmt.Errorf("list %s: %w", kind, err))
			continue
		}
		for _, a := range all {
			report.AssetsChecked++
			if err := s.withTimeout(ctx, func(ctx context.Context) error {
				return s.repairAsset(ctx, kind, repo, a.ID, rec)
			}); err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", kind, a.ID, err))
			}
		}
	}

	emps, err := s.listEmployees(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("list employees: %w", err))
	}
	for _, e := range emps {
		report.EmployeesChecked++
		if err := s.withTimeout(ctx, func(ctx context.Context) error {
			return s.repairEmployee(ctx, e.ID, rec)
		}); err != nil {
			errs = append(errs, fmt.Errorf("employee %s: %w", e.ID, err))
		}
	}

	report.Actions = rec.actions
	report.FinishedAt = time.Now().UTC()

	if len(errs) > 0 {
		return report, fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}
	return report, nil
}

// Run sweeps every interval until ctx is done.
func (s *service) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info(ctx, "reconcile sweeper started", logger.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "reconcile sweeper stopped")
			return nil
		case <-ticker.C:
			report, err := s.Sweep(ctx)
			if err != nil {
				logger.Error(ctx, "reconcile sweep", logger.ErrorF(err))
			}
			if report != nil {
				logger.Info(ctx, "reconcile sweep finished",
					logger.Int("assets_checked", report.AssetsChecked),
					logger.Int("employees_checked", report.EmployeesChecked),
					logger.Int("intents_resolved", report.IntentsResolved),
					logger.Int("actions", len(report.Actions)),
					logger.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
				)
			}
		}
	}
}

func (s *service) repairIntent(ctx context.Context, in *model.Intent, rec *recorder) error {
	repo, err := s.assetRepo(in.Kind)
	if err != nil {
		return err
	}

	err = s.withTimeout(ctx, func(ctx context.Context) error {
		if err := s.repairAsset(ctx, in.Kind, repo, in.AssetID, rec); err != nil {
			return err
		}
		for _, id := range []string{in.From, in.To} {
			if id == "" {
				continue
			}
			if err := s.repairEmployee(ctx, id, rec); err != nil {
				return err
			}
		}
		return s.journal.Finish(ctx, in.ID, model.IntentRepaired)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stale intent repaired",
		logger.String("intent_id", in.ID),
		logger.String("asset_id", in.AssetID),
		logger.Strings("steps", in.Steps),
	)
	return nil
}

func (s *service) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()
	return fn(ctx)
}

func (s *service) listStale(ctx context.Context, before time.Time) (out []*model.Intent, err error) {
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		out, err = s.journal.ListStale(ctx, before)
		return err
	})
	return out, err
}

func (s *service) listAssets(ctx context.Context, repo AssetRepository) (out []*model.Asset, err error) {
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		out, err = repo.List(ctx, model.AssetsFilter{})
		return err
	})
	return out, err
}

func (s *service) listEmployees(ctx context.Context) (out []*model.Employee, err error) {
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		out, err = s.employees.List(ctx)
		return err
	})
	return out, err
}
