package repository

import (
	"time"

	"github.com/you-humble/asset-tracker/internal/model"
)

type IntentEntity struct {
	ID         string            `bson:"_id"`
	Kind       model.Kind        `bson:"kind"`
	AssetID    string            `bson:"asset_id"`
	From       string            `bson:"from,omitempty"`
	To         string            `bson:"to,omitempty"`
	Transition model.Transition  `bson:"transition"`
	Steps      []string          `bson:"steps"`
	State      model.IntentState `bson:"state"`
	CreatedAt  time.Time         `bson:"created_at"`
	UpdatedAt  time.Time         `bson:"updated_at"`
}

func EntityToModel(e *IntentEntity) *model.Intent {
	if e == nil {
		return nil
	}
	return &model.Intent{
		ID:         e.ID,
		Kind:       e.Kind,
		AssetID:    e.AssetID,
		From:       e.From,
		To:         e.To,
		Transition: e.Transition,
		Steps:      e.Steps,
		State:      e.State,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func EntityFromModel(m *model.Intent) *IntentEntity {
	if m == nil {
		return nil
	}
	steps := m.Steps
	if steps == nil {
		steps = []string{}
	}
	return &IntentEntity{
		ID:         m.ID,
		Kind:       m.Kind,
		AssetID:    m.AssetID,
		From:       m.From,
		To:         m.To,
		Transition: m.Transition,
		Steps:      steps,
		State:      m.State,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
