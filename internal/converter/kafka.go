package converter

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/you-humble/asset-tracker/internal/model"
)

// assignmentRecord is the wire form of model.AssignmentEvent on the
// assignment topic.
type assignmentRecord struct {
	EventUUID  string    `json:"event_uuid"`
	Kind       string    `json:"kind"`
	AssetID    string    `json:"asset_id"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Transition string    `json:"transition"`
	OccurredAt time.Time `json:"occurred_at"`
}

type kafkaConverter struct{}

func NewKafkaConverter() *kafkaConverter { return &kafkaConverter{} }

func (c *kafkaConverter) AssignmentEventToBytes(e model.AssignmentEvent) ([]byte, error) {
	payload, err := json.Marshal(assignmentRecord{
		EventUUID:  e.EventID.String(),
		Kind:       string(e.Kind),
		AssetID:    e.AssetID,
		From:       e.From,
		To:         e.To,
		Transition: string(e.Transition),
		OccurredAt: e.OccurredAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assignment record: %w", err)
	}

	return payload, nil
}

func (c *kafkaConverter) AssignmentEventFromBytes(data []byte) (model.AssignmentEvent, error) {
	var rec assignmentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.AssignmentEvent{}, fmt.Errorf("failed to unmarshal assignment record: %w", err)
	}

	eventID, err := uuid.Parse(rec.EventUUID)
	if err != nil {
		return model.AssignmentEvent{}, fmt.Errorf("event_uuid: %w", err)
	}
	kind, err := model.ParseKind(rec.Kind)
	if err != nil {
		return model.AssignmentEvent{}, err
	}
	if rec.AssetID == "" {
		return model.AssignmentEvent{}, fmt.Errorf("%w: empty asset_id", model.ErrValidation)
	}

	return model.AssignmentEvent{
		EventID:    eventID,
		Kind:       kind,
		AssetID:    rec.AssetID,
		From:       rec.From,
		To:         rec.To,
		Transition: model.Transition(rec.Transition),
		OccurredAt: rec.OccurredAt,
	}, nil
}
