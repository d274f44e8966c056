package asgproducer

import (
	"context"
	"fmt"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/kafka"
)

const (
	headerEventID    = "event_id"
	headerTransition = "transition"
	headerKind       = "kind"
)

type Converter interface {
	AssignmentEventToBytes(e model.AssignmentEvent) ([]byte, error)
}

type service struct {
	producer kafka.Producer
	conv     Converter
}

func NewAssignmentProducer(producer kafka.Producer, conv Converter) *service {
	return &service{producer: producer, conv: conv}
}

// PublishAssignment sends event keyed by asset id, so that the events of one
// asset keep their order within a partition.
func (s *service) PublishAssignment(ctx context.Context, event model.AssignmentEvent) error {
	payload, err := s.conv.AssignmentEventToBytes(event)
	if err != nil {
		return fmt.Errorf("converter assignment_event_to_bytes error: %w", err)
	}

	headers := map[string][]byte{
		headerEventID:    []byte(event.EventID.String()),
		headerTransition: []byte(event.Transition),
		headerKind:       []byte(event.Kind),
	}
	if err := s.producer.Send(ctx, []byte(event.AssetID), payload, headers); err != nil {
		return fmt.Errorf("producer to assignment topic error: %w", err)
	}

	return nil
}

type nopPublisher struct{}

// NewNopPublisher drops every event. Used when Kafka is disabled.
func NewNopPublisher() nopPublisher { return nopPublisher{} }

func (nopPublisher) PublishAssignment(context.Context, model.AssignmentEvent) error { return nil }
