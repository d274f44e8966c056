package service

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/asset-tracker/internal/model"
)

func TestCreateAssetAssignsHolder(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")

	a := f.createMouse(t, "E-0001")

	assert.Equal(t, "M-0001", a.ID)
	assert.Equal(t, model.StatusUsed, a.Status)
	assert.Equal(t, "E-0001", a.Holder())

	h, ok := f.employee(t, "E-0001").Holding(model.KindMouse)
	require.True(t, ok)
	assert.Equal(t, model.Holding{AssetID: "M-0001", Status: model.StatusUsed}, h)

	events := f.st.Events.All()
	require.Len(t, events, 1)
	assert.Equal(t, model.TransitionAssign, events[0].Transition)
	assert.Equal(t, "E-0001", events[0].To)
	assert.Len(t, f.st.Journal.ByState(model.IntentCommitted), 1)
	requireConsistent(t, f.st)
}

func TestCreateAssetUnassigned(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.createMouse(t, "")
	b := f.createMouse(t, "")

	assert.Equal(t, "M-0001", a.ID)
	assert.Equal(t, "M-0002", b.ID)
	assert.Equal(t, model.StatusStore, a.Status)
	assert.Nil(t, a.AssignedTo)
	assert.Empty(t, f.st.Events.All())
	requireConsistent(t, f.st)
}

func TestCreateAssetValidation(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name    string
		params  func() model.CreateAssetParams
		wantErr error
	}

	tests := []testCase{
		{
			name: "unknown kind",
			params: func() model.CreateAssetParams {
				p := mouseParams("")
				p.Kind = "printer"
				return p
			},
			wantErr: model.ErrUnknownKind,
		},
		{
			name: "missing brand",
			params: func() model.CreateAssetParams {
				p := mouseParams("")
				p.Attributes.Brand = nil
				return p
			},
			wantErr: model.ErrValidation,
		},
		{
			name: "laptop without ram",
			params: func() model.CreateAssetParams {
				return model.CreateAssetParams{
					Kind: model.KindLaptop,
					Attributes: model.Attributes{
						Brand: lo.ToPtr("Lenovo"),
						SSD:   lo.ToPtr("512"),
						Gen:   lo.ToPtr("12"),
					},
				}
			},
			wantErr: model.ErrValidation,
		},
		{
			name: "bad status enum",
			params: func() model.CreateAssetParams {
				p := mouseParams("")
				p.Status = lo.ToPtr(model.Status("BROKEN"))
				return p
			},
			wantErr: model.ErrInvalidStatus,
		},
		{
			name: "used without holder",
			params: func() model.CreateAssetParams {
				p := mouseParams("")
				p.Status = lo.ToPtr(model.StatusUsed)
				return p
			},
			wantErr: model.ErrValidation,
		},
		{
			name: "repair with holder",
			params: func() model.CreateAssetParams {
				p := mouseParams("E-0001")
				p.Status = lo.ToPtr(model.StatusRepair)
				return p
			},
			wantErr: model.ErrValidation,
		},
		{
			name: "unknown employee",
			params: func() model.CreateAssetParams {
				return mouseParams("E-0404")
			},
			wantErr: model.ErrEmployeeNotFound,
		},
		{
			name: "inactive employee",
			params: func() model.CreateAssetParams {
				return mouseParams("E-0002")
			},
			wantErr: model.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, "E-0001")
			f.st.Employees.Put(model.Employee{ID: "E-0002", Status: model.EmployeeInactive})

			a, err := f.svc.CreateAsset(context.Background(), tt.params())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, a)

			assert.Zero(t, f.st.Assets[model.KindMouse].Len())
			_, holds := f.employee(t, "E-0001").Holding(model.KindMouse)
			assert.False(t, holds)
			assert.Empty(t, f.st.Events.All())
		})
	}
}

func TestUpdateAssetReassign(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001", "E-0002")
	f.createMouse(t, "E-0001")

	a, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0002"),
	})
	require.NoError(t, err)

	assert.Equal(t, "E-0002", a.Holder())
	assert.Equal(t, model.StatusUsed, a.Status)

	_, holds := f.employee(t, "E-0001").Holding(model.KindMouse)
	assert.False(t, holds)
	h, holds := f.employee(t, "E-0002").Holding(model.KindMouse)
	require.True(t, holds)
	assert.Equal(t, "M-0001", h.AssetID)

	events := f.st.Events.All()
	require.Len(t, events, 2)
	assert.Equal(t, model.TransitionReassign, events[1].Transition)
	assert.Equal(t, "E-0001", events[1].From)
	assert.Equal(t, "E-0002", events[1].To)
	requireConsistent(t, f.st)
}

func TestUpdateAssetDisplacesPreviousAsset(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001", "E-0002")
	f.createMouse(t, "E-0001")
	f.createMouse(t, "E-0002")

	_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0002"),
	})
	require.NoError(t, err)

	displaced := f.asset(t, model.KindMouse, "M-0002")
	assert.Nil(t, displaced.AssignedTo)
	assert.Equal(t, model.StatusStore, displaced.Status)

	h, _ := f.employee(t, "E-0002").Holding(model.KindMouse)
	assert.Equal(t, "M-0001", h.AssetID)
	requireConsistent(t, f.st)
}

func TestUpdateAssetStatusChangeDetaches(t *testing.T) {
	t.Parallel()

	for _, st := range []model.Status{model.StatusRepair, model.StatusStore} {
		t.Run(string(st), func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, "E-0001")
			f.createMouse(t, "E-0001")

			a, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
				Kind:   model.KindMouse,
				ID:     "M-0001",
				Status: lo.ToPtr(st),
			})
			require.NoError(t, err)

			assert.Equal(t, st, a.Status)
			assert.Nil(t, a.AssignedTo)
			_, holds := f.employee(t, "E-0001").Holding(model.KindMouse)
			assert.False(t, holds)
			assert.Equal(t, model.StatusStore, f.employee(t, "E-0001").HoldingStatus(model.KindMouse))
			requireConsistent(t, f.st)
		})
	}
}

func TestUpdateAssetFieldsOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.createMouse(t, "E-0001")

	a, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		Attributes: model.Attributes{SerialNo: lo.ToPtr("SN-1")},
	})
	require.NoError(t, err)

	assert.Equal(t, "SN-1", a.SerialNo)
	assert.Equal(t, "E-0001", a.Holder())
	assert.Len(t, f.st.Events.All(), 1)
	requireConsistent(t, f.st)
}

func TestUpdateAssetRepairKeptOnFieldEdit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.createMouse(t, "")

	_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:   model.KindMouse,
		ID:     "M-0001",
		Status: lo.ToPtr(model.StatusRepair),
	})
	require.NoError(t, err)

	a, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		Attributes: model.Attributes{Series: lo.ToPtr("X")},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRepair, a.Status)
}

func TestUpdateAssetUnknownEmployeeWritesNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.createMouse(t, "E-0001")
	before := f.asset(t, model.KindMouse, "M-0001")

	_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0999"),
	})
	require.ErrorIs(t, err, model.ErrEmployeeNotFound)

	assert.Equal(t, before, f.asset(t, model.KindMouse, "M-0001"))
	h, _ := f.employee(t, "E-0001").Holding(model.KindMouse)
	assert.Equal(t, "M-0001", h.AssetID)
	assert.Equal(t, 1, f.metrics.Failures["assignment.service.UpdateAsset"])
	requireConsistent(t, f.st)
}

func TestUpdateAssetValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  model.UpdateAssetParams
		wantErr error
	}{
		{
			name:    "used without holder",
			params:  model.UpdateAssetParams{Status: lo.ToPtr(model.StatusUsed)},
			wantErr: model.ErrValidation,
		},
		{
			name:    "holder together with repair",
			params:  model.UpdateAssetParams{Status: lo.ToPtr(model.StatusRepair), AssignedTo: model.RefTo("E-0001")},
			wantErr: model.ErrValidation,
		},
		{
			name:    "blank required field",
			params:  model.UpdateAssetParams{Attributes: model.Attributes{Brand: lo.ToPtr(" ")}},
			wantErr: model.ErrValidation,
		},
		{
			name:    "bad status",
			params:  model.UpdateAssetParams{Status: lo.ToPtr(model.Status("LOST"))},
			wantErr: model.ErrInvalidStatus,
		},
		{
			name:    "missing asset",
			params:  model.UpdateAssetParams{ID: "M-0404"},
			wantErr: model.ErrAssetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, "E-0001")
			f.createMouse(t, "")

			p := tt.params
			p.Kind = model.KindMouse
			if p.ID == "" {
				p.ID = "M-0001"
			}

			_, err := f.svc.UpdateAsset(context.Background(), p)
			require.ErrorIs(t, err, tt.wantErr)

			a := f.asset(t, model.KindMouse, "M-0001")
			assert.Equal(t, model.StatusStore, a.Status)
			assert.Equal(t, int64(1), a.Version)
		})
	}
}

func TestUpdateAssetRetriesOnConflict(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.createMouse(t, "")
	f.st.Assets[model.KindMouse].Conflicts = 2

	a, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0001"),
	})
	require.NoError(t, err)
	assert.Equal(t, "E-0001", a.Holder())
	assert.Equal(t, 2, f.metrics.Conflicts)
	requireConsistent(t, f.st)
}

func TestUpdateAssetGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.createMouse(t, "")
	f.st.Assets[model.KindMouse].Conflicts = 10

	_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0001"),
	})
	require.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, 3, f.metrics.Conflicts)

	_, holds := f.employee(t, "E-0001").Holding(model.KindMouse)
	assert.False(t, holds)
	assert.Len(t, f.st.Journal.ByState(model.IntentAborted), 3)
}

func TestUpdateAssetClaimRace(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.createMouse(t, "")

	// the employee disappears between the pre-check and the claim
	f.st.Employees.BeforeClaim = func(id string) { f.st.Employees.Remove(id) }

	_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0001"),
	})
	require.ErrorIs(t, err, model.ErrEmployeeNotFound)

	// the asset write is not rolled back; the pending intent marks it for repair
	a := f.asset(t, model.KindMouse, "M-0001")
	assert.Equal(t, "E-0001", a.Holder())
	pending := f.st.Journal.ByState(model.IntentPending)
	require.Len(t, pending, 1)
	assert.Equal(t, "M-0001", pending[0].AssetID)
	assert.Equal(t, []string{"write M-0001"}, pending[0].Steps)
}

func TestDeleteAsset(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.createMouse(t, "E-0001")

	require.NoError(t, f.svc.DeleteAsset(context.Background(), model.KindMouse, "M-0001"))

	assert.Zero(t, f.st.Assets[model.KindMouse].Len())
	_, holds := f.employee(t, "E-0001").Holding(model.KindMouse)
	assert.False(t, holds)

	events := f.st.Events.All()
	assert.Equal(t, model.TransitionDelete, events[len(events)-1].Transition)
	requireConsistent(t, f.st)
}

func TestDeleteAssetNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	err := f.svc.DeleteAsset(context.Background(), model.KindMouse, "M-0404")
	require.ErrorIs(t, err, model.ErrAssetNotFound)
	assert.Empty(t, f.st.Journal.ByState(model.IntentPending))
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.st.Events.Err = errors.New("broker down")

	a := f.createMouse(t, "E-0001")
	assert.Equal(t, "E-0001", a.Holder())
	requireConsistent(t, f.st)
}

func TestStoreUnavailableSurfaces(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.createMouse(t, "")
	f.st.Assets[model.KindMouse].Err = model.ErrStoreUnavailable

	_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0001"),
	})
	require.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestUpdateAssetSameHolderIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.createMouse(t, "E-0001")
	before := f.asset(t, model.KindMouse, "M-0001")
	beforeEmp := f.employee(t, "E-0001")

	_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0001"),
	})
	require.NoError(t, err)

	after := f.asset(t, model.KindMouse, "M-0001")
	assert.Equal(t, before.Holder(), after.Holder())
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Brand, after.Brand)
	assert.Equal(t, before.Model, after.Model)
	assert.Equal(t, beforeEmp, f.employee(t, "E-0001"))
	assert.Len(t, f.st.Events.All(), 1, "no event for an unchanged holder")
	requireConsistent(t, f.st)
}

func TestUpdateAssetSameHolderRestoresBackReference(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.st.Assets[model.KindMouse].Put(model.Asset{
		ID:         "M-0001",
		Brand:      "Logitech",
		Model:      "M185",
		Status:     model.StatusUsed,
		AssignedTo: lo.ToPtr("E-0001"),
	})

	_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0001"),
	})
	require.NoError(t, err)

	h, ok := f.employee(t, "E-0001").Holding(model.KindMouse)
	require.True(t, ok)
	assert.Equal(t, model.Holding{AssetID: "M-0001", Status: model.StatusUsed}, h)
	requireConsistent(t, f.st)
}

func TestUpdateAssetWithoutVersionField(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001")
	f.st.Assets[model.KindKeyboard].Put(model.Asset{
		ID:     "K-0001",
		Brand:  "Logitech",
		Model:  "K120",
		Status: model.StatusStore,
	})

	a, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindKeyboard,
		ID:         "K-0001",
		AssignedTo: model.RefTo("E-0001"),
	})
	require.NoError(t, err)
	assert.Equal(t, "E-0001", a.Holder())
	assert.Equal(t, int64(1), a.Version)
	assert.Zero(t, f.metrics.Conflicts)
	requireConsistent(t, f.st)
}

func TestUpdateAssetReleaseFailureStopsSequence(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "E-0001", "E-0002")
	f.createMouse(t, "E-0001")
	before := f.asset(t, model.KindMouse, "M-0001")
	claims := f.st.Employees.Claims()
	f.st.Employees.FailRelease = model.ErrStoreUnavailable

	_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
		Kind:       model.KindMouse,
		ID:         "M-0001",
		AssignedTo: model.RefTo("E-0002"),
	})
	require.ErrorIs(t, err, model.ErrStoreUnavailable)

	assert.Equal(t, before, f.asset(t, model.KindMouse, "M-0001"), "asset write not attempted")
	assert.Equal(t, claims, f.st.Employees.Claims(), "claim not attempted")
	_, holds := f.employee(t, "E-0002").Holding(model.KindMouse)
	assert.False(t, holds)
	h, _ := f.employee(t, "E-0001").Holding(model.KindMouse)
	assert.Equal(t, "M-0001", h.AssetID)

	// nothing was written, so the intent is closed rather than left for repair
	assert.Empty(t, f.st.Journal.ByState(model.IntentPending))
	assert.Len(t, f.st.Journal.ByState(model.IntentAborted), 1)
}

func TestUpdateAssetInRepair(t *testing.T) {
	t.Parallel()

	t.Run("assignment alone is rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "E-0001")
		f.createMouse(t, "")
		_, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
			Kind:   model.KindMouse,
			ID:     "M-0001",
			Status: lo.ToPtr(model.StatusRepair),
		})
		require.NoError(t, err)
		before := f.asset(t, model.KindMouse, "M-0001")

		_, err = f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
			Kind:       model.KindMouse,
			ID:         "M-0001",
			AssignedTo: model.RefTo("E-0001"),
		})
		require.ErrorIs(t, err, model.ErrValidation)
		assert.Equal(t, before, f.asset(t, model.KindMouse, "M-0001"))
		_, holds := f.employee(t, "E-0001").Holding(model.KindMouse)
		assert.False(t, holds)
	})

	t.Run("explicit status brings it back", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "E-0001")
		f.st.Assets[model.KindMouse].Put(model.Asset{ID: "M-0001", Brand: "Logitech", Model: "G1", Status: model.StatusRepair})

		a, err := f.svc.UpdateAsset(context.Background(), model.UpdateAssetParams{
			Kind:       model.KindMouse,
			ID:         "M-0001",
			Status:     lo.ToPtr(model.StatusUsed),
			AssignedTo: model.RefTo("E-0001"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusUsed, a.Status)
		assert.Equal(t, "E-0001", a.Holder())
		requireConsistent(t, f.st)
	})
}
