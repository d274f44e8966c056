package repository

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/you-humble/asset-tracker/internal/model"
)

func TestEntityToModelHoldings(t *testing.T) {
	t.Parallel()

	e := &EmployeeEntity{
		ID:     "E-0001",
		Name:   "Ann",
		Status: model.EmployeeActive,
		Holdings: map[string]any{
			"laptop_id":      "L-0001",
			"laptop_status":  "USED",
			"mouse_id":       "M-0007",
			"keyboard_id":    "",
			"monitor_status": "",
			"unrelated":      42,
		},
	}

	got := EntityToModel(e)
	require.NotNil(t, got)

	assert.Equal(t, map[model.Kind]model.Holding{
		model.KindLaptop: {AssetID: "L-0001", Status: model.StatusUsed},
		model.KindMouse:  {AssetID: "M-0007", Status: model.StatusStore},
	}, got.Holdings)
}

func TestEntityFromModelFlattensHoldings(t *testing.T) {
	t.Parallel()

	m := &model.Employee{
		ID:     "E-0002",
		Status: model.EmployeeActive,
		Holdings: map[model.Kind]model.Holding{
			model.KindPhone: {AssetID: "PN-0001", Status: model.StatusRepair},
			model.KindMouse: {},
		},
	}

	got := EntityFromModel(m)
	assert.Equal(t, map[string]any{
		"phone_id":     "PN-0001",
		"phone_status": "REPAIR",
	}, got.Holdings)

	back := EntityToModel(got)
	assert.Equal(t, m.Holdings[model.KindPhone], back.Holdings[model.KindPhone])
	assert.NotContains(t, back.Holdings, model.KindMouse)
}

func TestBuildProfileSet(t *testing.T) {
	t.Parallel()

	assert.Empty(t, BuildProfileSet(model.EmployeeProfile{}))

	set := BuildProfileSet(model.EmployeeProfile{
		Name:   lo.ToPtr("Bo"),
		Status: lo.ToPtr(model.EmployeeInactive),
	})
	assert.Equal(t, bson.M{"employee_name": "Bo", "status": model.EmployeeInactive}, set)
}

func TestHoldingAbsent(t *testing.T) {
	t.Parallel()

	q := holdingAbsent(model.KindLaptop)
	or, ok := q["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 3)
	assert.Contains(t, or, bson.M{"laptop_id": bson.M{"$exists": false}})
}
