package repository

import (
	"time"

	"github.com/you-humble/asset-tracker/internal/model"
)

type AssetEntity struct {
	ID         string       `bson:"_id"`
	Brand      string       `bson:"brand,omitempty"`
	Model      string       `bson:"model,omitempty"`
	SerialNo   string       `bson:"serial_no,omitempty"`
	RAM        string       `bson:"ram,omitempty"`
	SSD        string       `bson:"ssd,omitempty"`
	Gen        string       `bson:"gen,omitempty"`
	Series     string       `bson:"series,omitempty"`
	Status     model.Status `bson:"status"`
	AssignedTo *string      `bson:"assigned_to"`
	Version    int64        `bson:"version"`
	CreatedAt  *time.Time   `bson:"createdAt,omitempty"`
	UpdatedAt  *time.Time   `bson:"updatedAt,omitempty"`
}

type statusCount struct {
	Status model.Status `bson:"_id"`
	Count  int64        `bson:"count"`
}
