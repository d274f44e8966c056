package dto

import "time"

type Asset struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Brand      *string    `json:"brand,omitempty"`
	Model      *string    `json:"model,omitempty"`
	SerialNo   *string    `json:"serial_no,omitempty"`
	RAM        *string    `json:"ram,omitempty"`
	SSD        *string    `json:"ssd,omitempty"`
	Gen        *string    `json:"gen,omitempty"`
	Series     *string    `json:"series,omitempty"`
	Status     string     `json:"status"`
	AssignedTo *string    `json:"assigned_to"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

type AssetStats struct {
	Total  int64 `json:"total"`
	Store  int64 `json:"store"`
	Used   int64 `json:"used"`
	Repair int64 `json:"repair"`
}

// Employee is flat: the fixed fields plus <kind>_id and <kind>_status for
// every asset kind.
type Employee map[string]any

type RepairAction struct {
	Kind       string `json:"kind"`
	AssetID    string `json:"asset_id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Action     string `json:"action"`
	Reason     string `json:"reason,omitempty"`
}

type ReconcileReport struct {
	AssetsChecked    int            `json:"assets_checked"`
	EmployeesChecked int            `json:"employees_checked"`
	IntentsResolved  int            `json:"intents_resolved"`
	Actions          []RepairAction `json:"actions"`
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
	Error            string         `json:"error,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
