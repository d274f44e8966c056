package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/service/memstore"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

type fixture struct {
	st      *memstore.Store
	metrics *memstore.Metrics
	svc     *service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.SetNopLogger()

	st := memstore.New()
	metrics := memstore.NewMetrics()

	assets := make(map[model.Kind]AssetRepository, len(st.Assets))
	for k, v := range st.Assets {
		assets[k] = v
	}

	return &fixture{
		st:      st,
		metrics: metrics,
		svc:     NewReconcileService(assets, st.Employees, st.Journal, metrics, time.Minute, time.Second),
	}
}

func (f *fixture) putAsset(kind model.Kind, id string, status model.Status, holder string) {
	a := model.Asset{ID: id, Brand: gofakeit.Company(), Status: status}
	if holder != "" {
		a.AssignedTo = lo.ToPtr(holder)
	}
	f.st.Assets[kind].Put(a)
}

func (f *fixture) putEmployee(id string, holdings map[model.Kind]model.Holding) {
	f.st.Employees.Put(model.Employee{
		ID:             id,
		Name:           gofakeit.Name(),
		Department:     gofakeit.JobTitle(),
		EmploymentType: model.EmploymentPermanent,
		Holdings:       holdings,
	})
}

func (f *fixture) asset(t *testing.T, kind model.Kind, id string) *model.Asset {
	t.Helper()
	a, ok := f.st.Assets[kind].Get(id)
	require.True(t, ok, "asset %s missing", id)
	return &a
}

func (f *fixture) holding(t *testing.T, id string, kind model.Kind) (model.Holding, bool) {
	t.Helper()
	e, ok := f.st.Employees.Get(id)
	require.True(t, ok, "employee %s missing", id)
	return e.Holding(kind)
}

func used(assetID string) model.Holding {
	return model.Holding{AssetID: assetID, Status: model.StatusUsed}
}

func actionNames(actions []model.RepairAction) []string {
	if len(actions) == 0 {
		return nil
	}
	return lo.Map(actions, func(a model.RepairAction, _ int) string { return a.Action })
}

func TestRepairAsset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    func(f *fixture)
		actions []string
		check   func(t *testing.T, f *fixture)
	}{
		{
			name: "claims for a holder that lost the reference",
			seed: func(f *fixture) {
				f.putEmployee("E-0001", nil)
				f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0001")
			},
			actions: []string{ActionClaim},
			check: func(t *testing.T, f *fixture) {
				h, ok := f.holding(t, "E-0001", model.KindMouse)
				require.True(t, ok)
				assert.Equal(t, used("M-0001"), h)
			},
		},
		{
			name: "stores a used asset without holder",
			seed: func(f *fixture) {
				f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "")
			},
			actions: []string{ActionStoreUnheld},
			check: func(t *testing.T, f *fixture) {
				assert.Equal(t, model.StatusStore, f.asset(t, model.KindMouse, "M-0001").Status)
			},
		},
		{
			name: "detaches from a missing holder",
			seed: func(f *fixture) {
				f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0404")
			},
			actions: []string{ActionDetachMissing},
			check: func(t *testing.T, f *fixture) {
				a := f.asset(t, model.KindMouse, "M-0001")
				assert.Empty(t, a.Holder())
				assert.Equal(t, model.StatusStore, a.Status)
			},
		},
		{
			name: "keeps the asset the holder points back at",
			seed: func(f *fixture) {
				f.putEmployee("E-0001", map[model.Kind]model.Holding{model.KindMouse: used("M-0002")})
				f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0001")
				f.putAsset(model.KindMouse, "M-0002", model.StatusUsed, "E-0001")
			},
			actions: []string{ActionDetachReplaced},
			check: func(t *testing.T, f *fixture) {
				assert.Empty(t, f.asset(t, model.KindMouse, "M-0001").Holder())
				assert.Equal(t, "E-0001", f.asset(t, model.KindMouse, "M-0002").Holder())
				h, _ := f.holding(t, "E-0001", model.KindMouse)
				assert.Equal(t, "M-0002", h.AssetID)
			},
		},
		{
			name: "claims over a stale reference",
			seed: func(f *fixture) {
				f.putEmployee("E-0001", map[model.Kind]model.Holding{model.KindMouse: used("M-0002")})
				f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0001")
				f.putAsset(model.KindMouse, "M-0002", model.StatusStore, "")
			},
			actions: []string{ActionClaim},
			check: func(t *testing.T, f *fixture) {
				h, _ := f.holding(t, "E-0001", model.KindMouse)
				assert.Equal(t, "M-0001", h.AssetID)
			},
		},
		{
			name: "releases employees of a deleted asset",
			seed: func(f *fixture) {
				f.putEmployee("E-0001", map[model.Kind]model.Holding{model.KindMouse: used("M-0001")})
			},
			actions: []string{ActionRelease},
			check: func(t *testing.T, f *fixture) {
				_, ok := f.holding(t, "E-0001", model.KindMouse)
				assert.False(t, ok)
			},
		},
		{
			name: "detaches a holder from an asset in repair",
			seed: func(f *fixture) {
				f.putEmployee("E-0001", map[model.Kind]model.Holding{model.KindMouse: used("M-0001")})
				f.putAsset(model.KindMouse, "M-0001", model.StatusRepair, "E-0001")
			},
			actions: []string{ActionDetachUnused, ActionRelease},
			check: func(t *testing.T, f *fixture) {
				a := f.asset(t, model.KindMouse, "M-0001")
				assert.Empty(t, a.Holder())
				assert.Equal(t, model.StatusRepair, a.Status)
				_, ok := f.holding(t, "E-0001", model.KindMouse)
				assert.False(t, ok)
			},
		},
		{
			name: "syncs the cached holding status",
			seed: func(f *fixture) {
				f.putEmployee("E-0001", map[model.Kind]model.Holding{
					model.KindMouse: {AssetID: "M-0001", Status: model.StatusRepair},
				})
				f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0001")
			},
			actions: []string{ActionSyncStatus},
			check: func(t *testing.T, f *fixture) {
				h, _ := f.holding(t, "E-0001", model.KindMouse)
				assert.Equal(t, model.StatusUsed, h.Status)
			},
		},
		{
			name: "releases a second employee pointing at the asset",
			seed: func(f *fixture) {
				f.putEmployee("E-0001", map[model.Kind]model.Holding{model.KindMouse: used("M-0001")})
				f.putEmployee("E-0002", map[model.Kind]model.Holding{model.KindMouse: used("M-0001")})
				f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0001")
			},
			actions: []string{ActionRelease},
			check: func(t *testing.T, f *fixture) {
				_, ok := f.holding(t, "E-0002", model.KindMouse)
				assert.False(t, ok)
				h, _ := f.holding(t, "E-0001", model.KindMouse)
				assert.Equal(t, "M-0001", h.AssetID)
			},
		},
		{
			name: "consistent pair is left alone",
			seed: func(f *fixture) {
				f.putEmployee("E-0001", map[model.Kind]model.Holding{model.KindMouse: used("M-0001")})
				f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0001")
			},
			check: func(t *testing.T, f *fixture) {
				assert.Empty(t, f.metrics.Repairs)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.seed(f)

			actions, err := f.svc.RepairAsset(context.Background(), model.KindMouse, "M-0001")
			require.NoError(t, err)
			assert.Equal(t, tt.actions, actionNames(actions))
			tt.check(t, f)
		})
	}
}

func TestRepairAssetUnknownKind(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.RepairAsset(context.Background(), model.Kind("toaster"), "T-0001")
	require.ErrorIs(t, err, model.ErrUnknownKind)
}

func TestRepairEmployee(t *testing.T) {
	t.Parallel()

	t.Run("releases references the asset does not return", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.putEmployee("E-0001", map[model.Kind]model.Holding{
			model.KindMouse:   used("M-0001"),
			model.KindMonitor: used("MN-0001"),
		})
		f.putEmployee("E-0002", map[model.Kind]model.Holding{model.KindMouse: used("M-0001")})
		f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0002")

		actions, err := f.svc.RepairEmployee(context.Background(), "E-0001")
		require.NoError(t, err)
		assert.Equal(t, []string{ActionRelease, ActionRelease}, actionNames(actions))

		e, _ := f.st.Employees.Get("E-0001")
		assert.Empty(t, e.Holdings)
		h, _ := f.holding(t, "E-0002", model.KindMouse)
		assert.Equal(t, "M-0001", h.AssetID)
	})

	t.Run("claims assets that name the employee", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.putEmployee("E-0001", nil)
		f.putAsset(model.KindLaptop, "L-0001", model.StatusUsed, "E-0001")

		actions, err := f.svc.RepairEmployee(context.Background(), "E-0001")
		require.NoError(t, err)
		assert.Equal(t, []string{ActionClaim}, actionNames(actions))

		h, ok := f.holding(t, "E-0001", model.KindLaptop)
		require.True(t, ok)
		assert.Equal(t, "L-0001", h.AssetID)
	})

	t.Run("detaches everything from a missing employee", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.putAsset(model.KindLaptop, "L-0001", model.StatusUsed, "E-0404")
		f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0404")
		f.putAsset(model.KindMouse, "M-0002", model.StatusUsed, "E-0005")

		actions, err := f.svc.RepairEmployee(context.Background(), "E-0404")
		require.NoError(t, err)
		assert.Len(t, actions, 2)
		assert.Equal(t, 2, f.metrics.Repairs[ActionDetachMissing])

		assert.Empty(t, f.asset(t, model.KindLaptop, "L-0001").Holder())
		assert.Empty(t, f.asset(t, model.KindMouse, "M-0001").Holder())
		assert.Equal(t, "E-0005", f.asset(t, model.KindMouse, "M-0002").Holder())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.st.Employees.Err = model.ErrStoreUnavailable

		_, err := f.svc.RepairEmployee(context.Background(), "E-0001")
		require.ErrorIs(t, err, model.ErrStoreUnavailable)
	})
}

func TestRepairDefersInFlightAssignment(t *testing.T) {
	t.Parallel()

	// E-0001 was just released from M-0001; the asset write is still to come
	seed := func(f *fixture, age time.Duration) {
		f.putEmployee("E-0001", nil)
		f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0001")
		f.st.Journal.Put(model.Intent{
			ID:         "intent-1",
			Kind:       model.KindMouse,
			AssetID:    "M-0001",
			From:       "E-0001",
			To:         "E-0002",
			Transition: model.TransitionReassign,
			Steps:      []string{"release E-0001"},
			State:      model.IntentPending,
			UpdatedAt:  time.Now().Add(-age),
		})
	}

	t.Run("asset", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		seed(f, time.Second)

		actions, err := f.svc.RepairAsset(context.Background(), model.KindMouse, "M-0001")
		require.NoError(t, err)
		assert.Equal(t, []string{ActionDeferred}, actionNames(actions))

		_, holds := f.holding(t, "E-0001", model.KindMouse)
		assert.False(t, holds, "released employee is not claimed again")
		assert.Equal(t, 1, f.metrics.Repairs[ActionDeferred])
	})

	t.Run("employee", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		seed(f, time.Second)

		actions, err := f.svc.RepairEmployee(context.Background(), "E-0001")
		require.NoError(t, err)
		assert.Equal(t, []string{ActionDeferred}, actionNames(actions))

		_, holds := f.holding(t, "E-0001", model.KindMouse)
		assert.False(t, holds)
	})

	t.Run("past the grace period", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		seed(f, time.Hour)

		actions, err := f.svc.RepairAsset(context.Background(), model.KindMouse, "M-0001")
		require.NoError(t, err)
		assert.Equal(t, []string{ActionClaim}, actionNames(actions))
	})

	t.Run("journal failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.st.Journal.Err = model.ErrStoreUnavailable

		_, err := f.svc.RepairAsset(context.Background(), model.KindMouse, "M-0001")
		require.ErrorIs(t, err, model.ErrStoreUnavailable)
	})
}

func TestRepairAssetWithoutVersionField(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.st.Assets[model.KindPhone].Put(model.Asset{ID: "PN-0001", Brand: "Apple", Status: model.StatusUsed})

	actions, err := f.svc.RepairAsset(context.Background(), model.KindPhone, "PN-0001")
	require.NoError(t, err)
	assert.Equal(t, []string{ActionStoreUnheld}, actionNames(actions))

	a := f.asset(t, model.KindPhone, "PN-0001")
	assert.Equal(t, model.StatusStore, a.Status)
	assert.Equal(t, int64(1), a.Version)
}

func TestSweep(t *testing.T) {
	t.Parallel()

	t.Run("repairs stale intents and scans everything", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		// a reassignment M-0001 E-0001 -> E-0002 that stopped after the asset write
		f.putEmployee("E-0001", nil)
		f.putEmployee("E-0002", nil)
		f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "E-0002")
		f.st.Journal.Put(model.Intent{
			ID:         "intent-1",
			Kind:       model.KindMouse,
			AssetID:    "M-0001",
			From:       "E-0001",
			To:         "E-0002",
			Transition: model.TransitionReassign,
			Steps:      []string{"release E-0001", "write M-0001"},
			State:      model.IntentPending,
			UpdatedAt:  time.Now().Add(-time.Hour),
		})
		// a fresh pending intent belongs to a sequence still running
		f.st.Journal.Put(model.Intent{
			ID:        "intent-2",
			Kind:      model.KindMouse,
			AssetID:   "M-0009",
			State:     model.IntentPending,
			UpdatedAt: time.Now(),
		})
		f.putAsset(model.KindKeyboard, "K-0001", model.StatusUsed, "")

		report, err := f.svc.Sweep(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, report.IntentsResolved)
		assert.Equal(t, 2, report.AssetsChecked)
		assert.Equal(t, 2, report.EmployeesChecked)
		assert.ElementsMatch(t, []string{ActionClaim, ActionStoreUnheld}, actionNames(report.Actions))
		assert.False(t, report.FinishedAt.Before(report.StartedAt))

		h, ok := f.holding(t, "E-0002", model.KindMouse)
		require.True(t, ok)
		assert.Equal(t, "M-0001", h.AssetID)

		repaired := f.st.Journal.ByState(model.IntentRepaired)
		require.Len(t, repaired, 1)
		assert.Equal(t, "intent-1", repaired[0].ID)
		assert.Len(t, f.st.Journal.ByState(model.IntentPending), 1)
	})

	t.Run("keeps going when one kind fails", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.st.Assets[model.KindLaptop].Err = model.ErrStoreUnavailable
		f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "")

		report, err := f.svc.Sweep(context.Background())
		require.ErrorIs(t, err, model.ErrStoreUnavailable)
		require.NotNil(t, report)
		assert.Equal(t, 1, report.AssetsChecked)
		assert.Equal(t, model.StatusStore, f.asset(t, model.KindMouse, "M-0001").Status)
	})

	t.Run("journal failure aborts", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.st.Journal.Err = errors.New("journal down")

		report, err := f.svc.Sweep(context.Background())
		require.Error(t, err)
		assert.Nil(t, report)
	})
}

func TestRunSweepsUntilCancelled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.putAsset(model.KindMouse, "M-0001", model.StatusUsed, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.svc.Run(ctx, 10*time.Millisecond) }()

	require.Eventually(t, func() bool {
		a, _ := f.st.Assets[model.KindMouse].Get("M-0001")
		return a.Status == model.StatusStore
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
