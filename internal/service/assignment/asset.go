package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

func (s *service) CreateAsset(ctx context.Context, p model.CreateAssetParams) (*model.Asset, error) {
	const op = "assignment.service.CreateAsset"
	p.AssignedTo = strings.TrimSpace(p.AssignedTo)
	log := logger.With(
		logger.String("kind", string(p.Kind)),
		logger.String("assigned_to", p.AssignedTo),
	)

	spec, err := model.SpecOf(p.Kind)
	if err != nil {
		return nil, s.fail(ctx, log, op, "validation: kind", err)
	}
	repo, err := s.assetRepo(p.Kind)
	if err != nil {
		return nil, s.fail(ctx, log, op, "asset store", err)
	}
	if err := validateAttributes(spec, p.Attributes, true); err != nil {
		return nil, s.fail(ctx, log, op, "validation: attributes", err)
	}
	status, err := createStatus(p)
	if err != nil {
		return nil, s.fail(ctx, log, op, "validation: status", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	if p.AssignedTo != "" {
		if err := s.ensureAssignable(ctx, p.AssignedTo); err != nil {
			return nil, s.fail(ctx, log, op, "target employee", err)
		}
	}

	id, err := s.ids.NextAssetID(ctx, p.Kind)
	if err != nil {
		return nil, s.fail(ctx, log, op, "next asset id", err)
	}

	asset := &model.Asset{ID: id, Kind: p.Kind, Status: status}
	p.Attributes.Apply(asset)
	if p.AssignedTo != "" {
		asset.AssignedTo = lo.ToPtr(p.AssignedTo)
	}

	var j *journalEntry
	if p.AssignedTo != "" {
		j, err = s.begin(ctx, model.Intent{
			Kind:       p.Kind,
			AssetID:    id,
			To:         p.AssignedTo,
			Transition: model.TransitionAssign,
		})
		if err != nil {
			return nil, s.fail(ctx, log, op, "journal", err)
		}
	}
	failed := true
	defer func() { s.finish(ctx, j, failed) }()

	if err := repo.Create(ctx, asset); err != nil {
		return nil, s.fail(ctx, log, op, "repository create", err)
	}
	s.step(ctx, j, "write "+id)

	if p.AssignedTo != "" {
		if err := s.claim(ctx, p.Kind, repo, p.AssignedTo, id, j); err != nil {
			return nil, s.fail(ctx, log, op, "claim holder", err)
		}
		s.publish(ctx, p.Kind, id, "", p.AssignedTo, model.TransitionAssign)
	}
	failed = false

	log.Info(ctx, "asset created", logger.String("asset_id", id))
	return asset, nil
}

func (s *service) UpdateAsset(ctx context.Context, p model.UpdateAssetParams) (*model.Asset, error) {
	const op = "assignment.service.UpdateAsset"
	log := logger.With(
		logger.String("kind", string(p.Kind)),
		logger.String("asset_id", p.ID),
	)

	spec, err := model.SpecOf(p.Kind)
	if err != nil {
		return nil, s.fail(ctx, log, op, "validation: kind", err)
	}
	repo, err := s.assetRepo(p.Kind)
	if err != nil {
		return nil, s.fail(ctx, log, op, "asset store", err)
	}
	if err := validateAttributes(spec, p.Attributes, false); err != nil {
		return nil, s.fail(ctx, log, op, "validation: attributes", err)
	}
	if err := checkStatus(p.Status); err != nil {
		return nil, s.fail(ctx, log, op, "validation: status", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	if target := strings.TrimSpace(p.AssignedTo.ID); p.AssignedTo.Set && target != "" {
		if err := s.ensureAssignable(ctx, target); err != nil {
			return nil, s.fail(ctx, log, op, "target employee", err)
		}
	}

	res, err := s.updateWithRetry(ctx, p.Kind, repo, p.ID, func(cur *model.Asset) (model.AssetWrite, error) {
		return resolveUpdate(cur, p)
	})
	if err != nil {
		return nil, s.fail(ctx, log, op, "update asset", err)
	}

	return res, nil
}

func (s *service) DeleteAsset(ctx context.Context, kind model.Kind, id string) error {
	const op = "assignment.service.DeleteAsset"
	log := logger.With(
		logger.String("kind", string(kind)),
		logger.String("asset_id", id),
	)

	repo, err := s.assetRepo(kind)
	if err != nil {
		return s.fail(ctx, log, op, "asset store", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	cur, err := repo.AssetByID(ctx, id)
	if err != nil {
		return s.fail(ctx, log, op, "repository asset by id", err)
	}
	from := cur.Holder()

	var j *journalEntry
	if from != "" {
		j, err = s.begin(ctx, model.Intent{
			Kind:       kind,
			AssetID:    id,
			From:       from,
			Transition: model.TransitionDelete,
		})
		if err != nil {
			return s.fail(ctx, log, op, "journal", err)
		}
	}
	failed := true
	defer func() { s.finish(ctx, j, failed) }()

	if from != "" {
		if _, err := s.employees.Release(ctx, from, kind, id); err != nil {
			return s.fail(ctx, log, op, "release holder", err)
		}
		s.step(ctx, j, "release "+from)
	}

	if err := repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, log, op, "repository delete", err)
	}
	s.step(ctx, j, "delete "+id)
	failed = false

	s.publish(ctx, kind, id, from, "", model.TransitionDelete)
	log.Info(ctx, "asset deleted")

	return nil
}

type errorLogger interface {
	Error(ctx context.Context, msg string, fields ...logger.Field)
}

func (s *service) fail(ctx context.Context, log errorLogger, op, msg string, err error) error {
	s.metrics.ObserveFailure(op)
	log.Error(ctx, msg, logger.ErrorF(err))
	return fmt.Errorf("%s: %w", op, err)
}
