package asgconsumer

import (
	"context"
	"fmt"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/kafka"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

type Converter interface {
	AssignmentEventFromBytes(data []byte) (model.AssignmentEvent, error)
}

type Repairer interface {
	RepairAsset(ctx context.Context, kind model.Kind, id string) ([]model.RepairAction, error)
	RepairEmployee(ctx context.Context, id string) ([]model.RepairAction, error)
}

type service struct {
	consumer kafka.Consumer
	conv     Converter
	repair   Repairer
}

func NewAssignmentConsumer(
	consumer kafka.Consumer,
	conv Converter,
	repair Repairer,
) *service {
	return &service{consumer: consumer, conv: conv, repair: repair}
}

// RunAssignmentVerifier checks the participants of every assignment event
// against each other until ctx is done.
func (s *service) RunAssignmentVerifier(ctx context.Context) error {
	logger.Info(ctx, "Starting assignment verifier")

	if err := s.consumer.Consume(ctx, s.assignmentHandler); err != nil {
		logger.Error(ctx, "Consume from assignment topic error", logger.ErrorF(err))
		return err
	}

	return nil
}

func (s *service) assignmentHandler(ctx context.Context, msg kafka.Message) error {
	event, err := s.conv.AssignmentEventFromBytes(msg.Value)
	if err != nil {
		// a record that cannot be decoded will never be, so it is skipped
		logger.Error(ctx, "Failed to decode assignment record",
			logger.String("key", string(msg.Key)),
			logger.ErrorF(err),
		)
		return nil
	}

	ctx = logger.ContextWith(ctx,
		logger.String("event_id", event.EventID.String()),
		logger.String("asset_id", event.AssetID),
	)

	var actions []model.RepairAction
	found, err := s.repair.RepairAsset(ctx, event.Kind, event.AssetID)
	if err != nil {
		return fmt.Errorf("repair asset %s: %w", event.AssetID, err)
	}
	actions = append(actions, found...)

	for _, id := range []string{event.From, event.To} {
		if id == "" {
			continue
		}
		found, err := s.repair.RepairEmployee(ctx, id)
		if err != nil {
			return fmt.Errorf("repair employee %s: %w", id, err)
		}
		actions = append(actions, found...)
	}

	if len(actions) > 0 {
		logger.Warn(ctx, "assignment verifier repaired references",
			logger.String("transition", string(event.Transition)),
			logger.Any("actions", actions),
		)
	}

	return nil
}
