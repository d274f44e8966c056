package repository

import (
	"time"

	"github.com/you-humble/asset-tracker/internal/model"
)

// EmployeeEntity keeps the per-kind "<kind>_id" / "<kind>_status" pairs in
// the inline map so that they sit flat in the stored document.
type EmployeeEntity struct {
	ID             string               `bson:"_id"`
	Name           string               `bson:"employee_name"`
	Department     string               `bson:"department,omitempty"`
	EmploymentType model.EmploymentType `bson:"employment_type"`
	TempEndDate    *time.Time           `bson:"temp_end_date,omitempty"`
	Status         model.EmployeeStatus `bson:"status"`
	CreatedAt      *time.Time           `bson:"createdAt,omitempty"`
	UpdatedAt      *time.Time           `bson:"updatedAt,omitempty"`
	Holdings       map[string]any       `bson:",inline"`
}
