package converter

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/asset-tracker/internal/model"
)

func TestAssignmentEventRoundTrip(t *testing.T) {
	t.Parallel()
	c := NewKafkaConverter()

	in := model.AssignmentEvent{
		EventID:    uuid.New(),
		Kind:       model.KindMonitor,
		AssetID:    "MN-0007",
		From:       "E-0001",
		To:         "E-0002",
		Transition: model.TransitionReassign,
		OccurredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	payload, err := c.AssignmentEventToBytes(in)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"asset_id":"MN-0007"`)

	out, err := c.AssignmentEventFromBytes(payload)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAssignmentEventFromBytesRejects(t *testing.T) {
	t.Parallel()
	c := NewKafkaConverter()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "{"},
		{name: "bad uuid", payload: `{"event_uuid":"x","kind":"mouse","asset_id":"M-0001"}`},
		{name: "unknown kind", payload: `{"event_uuid":"` + uuid.NewString() + `","kind":"tablet","asset_id":"T-1"}`},
		{name: "no asset", payload: `{"event_uuid":"` + uuid.NewString() + `","kind":"mouse"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.AssignmentEventFromBytes([]byte(tt.payload))
			require.Error(t, err)
		})
	}
}
