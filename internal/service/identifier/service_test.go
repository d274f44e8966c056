package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/service/mocks"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

func TestServiceNextID(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	type deps struct {
		counters *mocks.MockCounterRepository
	}

	bigSeq := int64(gofakeit.IntRange(10000, 99999))

	type testCase struct {
		name      string
		namespace string
		setup     func(d deps)
		assert    func(t *testing.T, id string, err error)
	}

	tests := []testCase{
		{
			name:      "first mouse id",
			namespace: "mouse",
			setup: func(d deps) {
				d.counters.On("Next", mock.Anything, "mouse_id").Return(int64(1), nil).Once()
			},
			assert: func(t *testing.T, id string, err error) {
				require.NoError(t, err)
				assert.Equal(t, "M-0001", id)
			},
		},
		{
			name:      "employee namespace",
			namespace: "employee",
			setup: func(d deps) {
				d.counters.On("Next", mock.Anything, "employee_id").Return(int64(42), nil).Once()
			},
			assert: func(t *testing.T, id string, err error) {
				require.NoError(t, err)
				assert.Equal(t, "E-0042", id)
			},
		},
		{
			name:      "two letter prefix",
			namespace: "monitor",
			setup: func(d deps) {
				d.counters.On("Next", mock.Anything, "monitor_id").Return(int64(7), nil).Once()
			},
			assert: func(t *testing.T, id string, err error) {
				require.NoError(t, err)
				assert.Equal(t, "MN-0007", id)
			},
		},
		{
			name:      "sequence wider than four digits",
			namespace: "laptop",
			setup: func(d deps) {
				d.counters.On("Next", mock.Anything, "laptop_id").Return(bigSeq, nil).Once()
			},
			assert: func(t *testing.T, id string, err error) {
				require.NoError(t, err)
				assert.Equal(t, FormatID("L", bigSeq), id)
				assert.Len(t, id, len("L-")+5)
			},
		},
		{
			name:      "unknown kind",
			namespace: "printer",
			setup:     func(d deps) {},
			assert: func(t *testing.T, id string, err error) {
				require.ErrorIs(t, err, model.ErrUnknownKind)
				assert.Empty(t, id)
			},
		},
		{
			name:      "counter store unreachable",
			namespace: "keyboard",
			setup: func(d deps) {
				d.counters.On("Next", mock.Anything, "keyboard_id").
					Return(int64(0), errors.Join(model.ErrStoreUnavailable, errors.New("dial tcp"))).
					Once()
			},
			assert: func(t *testing.T, id string, err error) {
				require.ErrorIs(t, err, model.ErrStoreUnavailable)
				assert.Empty(t, id)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := deps{counters: mocks.NewMockCounterRepository(t)}
			tt.setup(d)

			svc := NewIdentifierService(d.counters, time.Second)

			id, err := svc.NextID(context.Background(), tt.namespace)
			tt.assert(t, id, err)
		})
	}
}

func TestServiceConvenience(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	counters := mocks.NewMockCounterRepository(t)
	counters.On("Next", mock.Anything, "heatset_id").Return(int64(3), nil).Once()
	counters.On("Next", mock.Anything, "employee_id").Return(int64(12), nil).Once()

	svc := NewIdentifierService(counters, time.Second)

	id, err := svc.NextAssetID(context.Background(), model.KindHeadset)
	require.NoError(t, err)
	assert.Equal(t, "H-0003", id)

	id, err = svc.NextEmployeeID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "E-0012", id)
}
