package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

type AssetRepository interface {
	Create(ctx context.Context, a *model.Asset) error
	AssetByID(ctx context.Context, id string) (*model.Asset, error)
	Update(ctx context.Context, id string, version int64, w model.AssetWrite) (*model.Asset, error)
	Delete(ctx context.Context, id string) error
	Detach(ctx context.Context, id, employeeID string) (bool, error)
	DetachAllFrom(ctx context.Context, employeeID string) ([]string, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	EmployeeByID(ctx context.Context, id string) (*model.Employee, error)
	Update(ctx context.Context, id string, p model.EmployeeProfile) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
	Claim(ctx context.Context, id string, kind model.Kind, assetID string) (model.Holding, error)
	Release(ctx context.Context, id string, kind model.Kind, assetID string) (bool, error)
}

type IdentifierService interface {
	NextAssetID(ctx context.Context, kind model.Kind) (string, error)
	NextEmployeeID(ctx context.Context) (string, error)
}

type IntentJournal interface {
	Begin(ctx context.Context, in *model.Intent) error
	Step(ctx context.Context, id, step string) error
	Finish(ctx context.Context, id string, state model.IntentState) error
}

type EventPublisher interface {
	PublishAssignment(ctx context.Context, event model.AssignmentEvent) error
}

type Metrics interface {
	ObserveTransition(kind model.Kind, t model.Transition)
	ObserveConflict(kind model.Kind)
	ObserveFailure(op string)
}

type service struct {
	assets    map[model.Kind]AssetRepository
	employees EmployeeRepository
	ids       IdentifierService
	journal   IntentJournal
	events    EventPublisher
	metrics   Metrics

	maxAttempts    int
	writeDBTimeout time.Duration
}

func NewAssignmentService(
	assets map[model.Kind]AssetRepository,
	employees EmployeeRepository,
	ids IdentifierService,
	journal IntentJournal,
	events EventPublisher,
	metrics Metrics,
	maxAttempts int,
	writeDBTimeout time.Duration,
) *service {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &service{
		assets:         assets,
		employees:      employees,
		ids:            ids,
		journal:        journal,
		events:         events,
		metrics:        metrics,
		maxAttempts:    maxAttempts,
		writeDBTimeout: writeDBTimeout,
	}
}

func (s *service) assetRepo(kind model.Kind) (AssetRepository, error) {
	repo, ok := s.assets[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownKind, string(kind))
	}
	return repo, nil
}

// ensureAssignable fails unless employeeID names an existing ACTIVE employee.
func (s *service) ensureAssignable(ctx context.Context, employeeID string) error {
	emp, err := s.employees.EmployeeByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp.Status != model.EmployeeActive {
		return fmt.Errorf("%w: employee %s is %s", model.ErrValidation, employeeID, emp.Status)
	}
	return nil
}

// journalEntry tracks one intent. A zero id means journaling was skipped.
type journalEntry struct {
	id     string
	writes int
}

func (s *service) begin(ctx context.Context, in model.Intent) (*journalEntry, error) {
	in.ID = uuid.NewString()
	if err := s.journal.Begin(ctx, &in); err != nil {
		return nil, fmt.Errorf("begin intent: %w", err)
	}
	return &journalEntry{id: in.ID}, nil
}

func (s *service) step(ctx context.Context, j *journalEntry, step string) {
	if j == nil {
		return
	}
	j.writes++
	if err := s.journal.Step(ctx, j.id, step); err != nil {
		logger.Warn(ctx, "failed to record intent step",
			logger.String("intent_id", j.id),
			logger.String("step", step),
			logger.ErrorF(err),
		)
	}
}

// finish closes the intent. A failed sequence that already wrote something
// stays pending so that the reconciler picks it up.
func (s *service) finish(ctx context.Context, j *journalEntry, failed bool) {
	if j == nil {
		return
	}

	state := model.IntentCommitted
	if failed {
		if j.writes > 0 {
			return
		}
		state = model.IntentAborted
	}

	if err := s.journal.Finish(ctx, j.id, state); err != nil {
		logger.Warn(ctx, "failed to finish intent",
			logger.String("intent_id", j.id),
			logger.ErrorF(err),
		)
	}
}

func (s *service) publish(ctx context.Context, kind model.Kind, assetID, from, to string, t model.Transition) {
	s.metrics.ObserveTransition(kind, t)

	event := model.AssignmentEvent{
		EventID:    uuid.New(),
		Kind:       kind,
		AssetID:    assetID,
		From:       from,
		To:         to,
		Transition: t,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishAssignment(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish assignment event",
			logger.String("asset_id", assetID),
			logger.String("transition", string(t)),
			logger.ErrorF(err),
		)
	}
}
