package service

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/asset-tracker/internal/model"
	idsvc "github.com/you-humble/asset-tracker/internal/service/identifier"
	"github.com/you-humble/asset-tracker/internal/service/memstore"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

type fixture struct {
	st      *memstore.Store
	metrics *memstore.Metrics
	svc     *service
}

func newFixture(t *testing.T, employees ...string) *fixture {
	t.Helper()
	logger.SetNopLogger()

	st := memstore.New()
	metrics := memstore.NewMetrics()

	assets := make(map[model.Kind]AssetRepository, len(st.Assets))
	for k, v := range st.Assets {
		assets[k] = v
	}

	svc := NewAssignmentService(
		assets,
		st.Employees,
		idsvc.NewIdentifierService(st.Counters, time.Second),
		st.Journal,
		st.Events,
		metrics,
		3,
		2*time.Second,
	)

	for _, id := range employees {
		st.Employees.Put(model.Employee{
			ID:             id,
			Name:           gofakeit.Name(),
			Department:     gofakeit.JobTitle(),
			EmploymentType: model.EmploymentPermanent,
			Status:         model.EmployeeActive,
		})
		_, err := st.Counters.Next(context.Background(), model.EmployeeCounterKey)
		require.NoError(t, err)
	}

	return &fixture{st: st, metrics: metrics, svc: svc}
}

func mouseParams(assignedTo string) model.CreateAssetParams {
	return model.CreateAssetParams{
		Kind: model.KindMouse,
		Attributes: model.Attributes{
			Brand: lo.ToPtr(gofakeit.Company()),
			Model: lo.ToPtr(gofakeit.ProductName()),
		},
		AssignedTo: assignedTo,
	}
}

func (f *fixture) createMouse(t *testing.T, assignedTo string) *model.Asset {
	t.Helper()
	a, err := f.svc.CreateAsset(context.Background(), mouseParams(assignedTo))
	require.NoError(t, err)
	return a
}

func (f *fixture) asset(t *testing.T, kind model.Kind, id string) *model.Asset {
	t.Helper()
	a, ok := f.st.Assets[kind].Get(id)
	require.True(t, ok, "asset %s missing", id)
	return &a
}

func (f *fixture) employee(t *testing.T, id string) *model.Employee {
	t.Helper()
	e, ok := f.st.Employees.Get(id)
	require.True(t, ok, "employee %s missing", id)
	return &e
}

// requireConsistent checks both directions of every assignment reference.
func requireConsistent(t *testing.T, st *memstore.Store) {
	t.Helper()
	ctx := context.Background()

	for kind, repo := range st.Assets {
		all, err := repo.List(ctx, model.AssetsFilter{})
		require.NoError(t, err)

		for _, a := range all {
			holder := a.Holder()
			assert.Equal(t, holder != "", a.Status == model.StatusUsed,
				"%s %s: status %s with holder %q", kind, a.ID, a.Status, holder)
			if holder == "" {
				continue
			}
			e, ok := st.Employees.Get(holder)
			if !assert.True(t, ok, "%s %s held by missing employee %s", kind, a.ID, holder) {
				continue
			}
			h, holds := e.Holding(kind)
			assert.True(t, holds && h.AssetID == a.ID,
				"%s %s held by %s who points at %q", kind, a.ID, holder, h.AssetID)
		}
	}

	emps, err := st.Employees.List(ctx)
	require.NoError(t, err)
	for _, e := range emps {
		for kind, h := range e.Holdings {
			if h.AssetID == "" {
				continue
			}
			a, ok := st.Assets[kind].Get(h.AssetID)
			if !assert.True(t, ok, "%s points at missing %s %s", e.ID, kind, h.AssetID) {
				continue
			}
			assert.Equal(t, e.ID, a.Holder(), "%s points at %s held by %q", e.ID, a.ID, a.Holder())
			assert.Equal(t, model.StatusUsed, h.Status)
		}
	}
}
