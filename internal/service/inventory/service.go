package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

type AssetReader interface {
	AssetByID(ctx context.Context, id string) (*model.Asset, error)
	List(ctx context.Context, filter model.AssetsFilter) ([]*model.Asset, error)
	CountByStatus(ctx context.Context) (model.AssetStats, error)
}

type EmployeeReader interface {
	EmployeeByID(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context) ([]*model.Employee, error)
	ListAvailableFor(ctx context.Context, kind model.Kind) ([]*model.Employee, error)
}

type service struct {
	assets        map[model.Kind]AssetReader
	employees     EmployeeReader
	readDBTimeout time.Duration
}

func NewInventoryService(
	assets map[model.Kind]AssetReader,
	employees EmployeeReader,
	readDBTimeout time.Duration,
) *service {
	return &service{assets: assets, employees: employees, readDBTimeout: readDBTimeout}
}

func (s *service) assetRepo(kind model.Kind) (AssetReader, error) {
	repo, ok := s.assets[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownKind, string(kind))
	}
	return repo, nil
}

func (s *service) Asset(ctx context.Context, kind model.Kind, id string) (*model.Asset, error) {
	const op = "inventory.service.Asset"
	log := logger.With(
		logger.String("kind", string(kind)),
		logger.String("asset_id", id),
	)

	repo, err := s.assetRepo(kind)
	if err != nil {
		log.Error(ctx, "validation: kind", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id = strings.TrimSpace(id)
	if id == "" {
		log.Error(ctx, "validation: empty asset id")
		return nil, errors.Join(model.ErrValidation, errors.New("asset id must be non-empty"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	a, err := repo.AssetByID(ctx, id)
	if err != nil {
		log.Error(ctx, "repository asset by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (s *service) ListAssets(ctx context.Context, kind model.Kind, filter model.AssetsFilter) ([]*model.Asset, error) {
	const op = "inventory.service.ListAssets"
	log := logger.With(
		logger.String("kind", string(kind)),
		logger.Int("statuses_count", len(filter.Statuses)),
		logger.String("assigned_to", filter.AssignedTo),
	)

	repo, err := s.assetRepo(kind)
	if err != nil {
		log.Error(ctx, "validation: kind", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, st := range filter.Statuses {
		if _, err := model.ParseStatus(string(st)); err != nil {
			log.Error(ctx, "validation: status filter", logger.ErrorF(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	out, err := repo.List(ctx, filter)
	if err != nil {
		log.Error(ctx, "repository list assets", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// RepairList returns the assets in REPAIR, newest first.
func (s *service) RepairList(ctx context.Context, kind model.Kind) ([]*model.Asset, error) {
	return s.ListAssets(ctx, kind, model.AssetsFilter{Statuses: []model.Status{model.StatusRepair}})
}

func (s *service) Stats(ctx context.Context, kind model.Kind) (model.AssetStats, error) {
	const op = "inventory.service.Stats"
	log := logger.With(logger.String("kind", string(kind)))

	repo, err := s.assetRepo(kind)
	if err != nil {
		log.Error(ctx, "validation: kind", logger.ErrorF(err))
		return model.AssetStats{}, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	st, err := repo.CountByStatus(ctx)
	if err != nil {
		log.Error(ctx, "repository count by status", logger.ErrorF(err))
		return model.AssetStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

func (s *service) Employee(ctx context.Context, id string) (*model.Employee, error) {
	const op = "inventory.service.Employee"
	log := logger.With(logger.String("employee_id", id))

	id = strings.TrimSpace(id)
	if id == "" {
		log.Error(ctx, "validation: empty employee id")
		return nil, errors.Join(model.ErrValidation, errors.New("employee id must be non-empty"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	e, err := s.employees.EmployeeByID(ctx, id)
	if err != nil {
		log.Error(ctx, "repository employee by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (s *service) ListEmployees(ctx context.Context) ([]*model.Employee, error) {
	const op = "inventory.service.ListEmployees"

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	out, err := s.employees.List(ctx)
	if err != nil {
		logger.Error(ctx, "repository list employees", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// AvailableEmployees lists ACTIVE employees that hold nothing of kind.
func (s *service) AvailableEmployees(ctx context.Context, kind model.Kind) ([]*model.Employee, error) {
	const op = "inventory.service.AvailableEmployees"
	log := logger.With(logger.String("kind", string(kind)))

	if _, err := model.SpecOf(kind); err != nil {
		log.Error(ctx, "validation: kind", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	out, err := s.employees.ListAvailableFor(ctx, kind)
	if err != nil {
		log.Error(ctx, "repository list available employees", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
