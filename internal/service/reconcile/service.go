package service

import (
	"context"
	"fmt"
	"time"

	"github.com/you-humble/asset-tracker/internal/model"
)

// Repair action names, also used as the metrics label.
const (
	ActionStoreUnheld    = "store_unheld"
	ActionDetachUnused   = "detach_unused"
	ActionDetachMissing  = "detach_missing_holder"
	ActionDetachReplaced = "detach_replaced"
	ActionClaim          = "claim"
	ActionSyncStatus     = "sync_status"
	ActionRelease        = "release_stale"
	ActionDeferred       = "deferred"
)

type AssetRepository interface {
	AssetByID(ctx context.Context, id string) (*model.Asset, error)
	List(ctx context.Context, f model.AssetsFilter) ([]*model.Asset, error)
	Update(ctx context.Context, id string, version int64, w model.AssetWrite) (*model.Asset, error)
	Detach(ctx context.Context, id, employeeID string) (bool, error)
	DetachAllFrom(ctx context.Context, employeeID string) ([]string, error)
}

type EmployeeRepository interface {
	EmployeeByID(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context) ([]*model.Employee, error)
	ListHolding(ctx context.Context, kind model.Kind, assetID string) ([]*model.Employee, error)
	Claim(ctx context.Context, id string, kind model.Kind, assetID string) (model.Holding, error)
	Release(ctx context.Context, id string, kind model.Kind, assetID string) (bool, error)
	SyncStatus(ctx context.Context, id string, kind model.Kind, assetID string, status model.Status) (bool, error)
}

type IntentJournal interface {
	ListStale(ctx context.Context, before time.Time) ([]*model.Intent, error)
	ListInFlight(ctx context.Context, since time.Time) ([]*model.Intent, error)
	Finish(ctx context.Context, id string, state model.IntentState) error
}

type Metrics interface {
	ObserveRepair(kind model.Kind, action string)
}

type service struct {
	assets    map[model.Kind]AssetRepository
	employees EmployeeRepository
	journal   IntentJournal
	metrics   Metrics

	intentGrace    time.Duration
	writeDBTimeout time.Duration
}

func NewReconcileService(
	assets map[model.Kind]AssetRepository,
	employees EmployeeRepository,
	journal IntentJournal,
	metrics Metrics,
	intentGrace time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		assets:         assets,
		employees:      employees,
		journal:        journal,
		metrics:        metrics,
		intentGrace:    intentGrace,
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

type assetKey struct {
	kind model.Kind
	id   string
}

// recorder collects the actions of one repair run.
type recorder struct {
	metrics Metrics
	actions []model.RepairAction
	// busy holds assets whose assignment sequence is still running; they are
	// left to the sweep.
	busy map[assetKey]struct{}
}

// deferred records and reports whether the asset is busy.
func (r *recorder) deferred(kind model.Kind, assetID, employeeID string) bool {
	if _, ok := r.busy[assetKey{kind, assetID}]; !ok {
		return false
	}
	r.add(kind, assetID, employeeID, ActionDeferred, "assignment in progress")
	return true
}

// newEventRecorder marks the assets of pending intents younger than the grace
// period as busy.
func (s *service) newEventRecorder(ctx context.Context) (*recorder, error) {
	inFlight, err := s.journal.ListInFlight(ctx, time.Now().UTC().Add(-s.intentGrace))
	if err != nil {
		return nil, fmt.Errorf("list in-flight intents: %w", err)
	}

	rec := &recorder{metrics: s.metrics, busy: make(map[assetKey]struct{}, len(inFlight))}
	for _, in := range inFlight {
		rec.busy[assetKey{in.Kind, in.AssetID}] = struct{}{}
	}
	return rec, nil
}

func (r *recorder) add(kind model.Kind, assetID, employeeID, action, reason string) {
	r.metrics.ObserveRepair(kind, action)
	r.actions = append(r.actions, model.RepairAction{
		Kind:       kind,
		AssetID:    assetID,
		EmployeeID: employeeID,
		Action:     action,
		Reason:     reason,
	})
}
