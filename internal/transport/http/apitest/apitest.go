// Package apitest assembles the services over in-memory stores for handler
// tests.
package apitest

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/asset-tracker/internal/model"
	assignsvc "github.com/you-humble/asset-tracker/internal/service/assignment"
	idsvc "github.com/you-humble/asset-tracker/internal/service/identifier"
	invsvc "github.com/you-humble/asset-tracker/internal/service/inventory"
	"github.com/you-humble/asset-tracker/internal/service/memstore"
	recsvc "github.com/you-humble/asset-tracker/internal/service/reconcile"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

type Assignment interface {
	CreateAsset(ctx context.Context, p model.CreateAssetParams) (*model.Asset, error)
	UpdateAsset(ctx context.Context, p model.UpdateAssetParams) (*model.Asset, error)
	DeleteAsset(ctx context.Context, kind model.Kind, id string) error
	CreateEmployee(ctx context.Context, p model.CreateEmployeeParams) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, p model.UpdateEmployeeParams) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type Inventory interface {
	Asset(ctx context.Context, kind model.Kind, id string) (*model.Asset, error)
	ListAssets(ctx context.Context, kind model.Kind, filter model.AssetsFilter) ([]*model.Asset, error)
	RepairList(ctx context.Context, kind model.Kind) ([]*model.Asset, error)
	Stats(ctx context.Context, kind model.Kind) (model.AssetStats, error)
	Employee(ctx context.Context, id string) (*model.Employee, error)
	ListEmployees(ctx context.Context) ([]*model.Employee, error)
	AvailableEmployees(ctx context.Context, kind model.Kind) ([]*model.Employee, error)
}

type Reconcile interface {
	Sweep(ctx context.Context) (*model.ReconcileReport, error)
	RepairAsset(ctx context.Context, kind model.Kind, id string) ([]model.RepairAction, error)
	RepairEmployee(ctx context.Context, id string) ([]model.RepairAction, error)
}

type Stack struct {
	Store      *memstore.Store
	Metrics    *memstore.Metrics
	Assignment Assignment
	Inventory  Inventory
	Reconcile  Reconcile
}

func New(t *testing.T) *Stack {
	t.Helper()
	logger.SetNopLogger()

	st := memstore.New()
	metrics := memstore.NewMetrics()

	writers := make(map[model.Kind]assignsvc.AssetRepository, len(st.Assets))
	readers := make(map[model.Kind]invsvc.AssetReader, len(st.Assets))
	repairers := make(map[model.Kind]recsvc.AssetRepository, len(st.Assets))
	for k, v := range st.Assets {
		writers[k] = v
		readers[k] = v
		repairers[k] = v
	}

	return &Stack{
		Store:   st,
		Metrics: metrics,
		Assignment: assignsvc.NewAssignmentService(
			writers,
			st.Employees,
			idsvc.NewIdentifierService(st.Counters, time.Second),
			st.Journal,
			st.Events,
			metrics,
			3,
			time.Second,
		),
		Inventory: invsvc.NewInventoryService(readers, st.Employees, time.Second),
		Reconcile: recsvc.NewReconcileService(repairers, st.Employees, st.Journal, metrics, time.Minute, time.Second),
	}
}

// Do sends body (marshalled unless it is a string) to r and decodes the JSON
// answer into out when out is not nil.
func Do(t *testing.T, r chi.Router, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		rd = strings.NewReader(string(payload))
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

// Employee seeds an ACTIVE employee directly in the store and advances the
// employee counter past it.
func (s *Stack) Employee(t *testing.T, id string) {
	t.Helper()
	s.Store.Employees.Put(model.Employee{
		ID:             id,
		Name:           "Seeded " + id,
		Department:     "IT",
		EmploymentType: model.EmploymentPermanent,
		Status:         model.EmployeeActive,
	})
	_, err := s.Store.Counters.Next(context.Background(), model.EmployeeCounterKey)
	require.NoError(t, err)
}
