package model

import "time"

// Holding is an employee's forward reference to one asset of a kind.
type Holding struct {
	AssetID string
	Status  Status
}

type Employee struct {
	ID             string
	Name           string
	Department     string
	EmploymentType EmploymentType
	// Only meaningful for temporary employment.
	TempEndDate *time.Time
	Status      EmployeeStatus
	Holdings    map[Kind]Holding
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

func (e *Employee) Holding(k Kind) (Holding, bool) {
	if e == nil || e.Holdings == nil {
		return Holding{}, false
	}
	h, ok := e.Holdings[k]
	if !ok || h.AssetID == "" {
		return Holding{}, false
	}
	return h, true
}

// HoldingStatus is the cached status for kind k; STORE when nothing is held.
func (e *Employee) HoldingStatus(k Kind) Status {
	if e != nil && e.Holdings != nil {
		if h, ok := e.Holdings[k]; ok && h.Status != "" {
			return h.Status
		}
	}
	return StatusStore
}

type CreateEmployeeParams struct {
	Name           string
	Department     string
	EmploymentType EmploymentType
	TempEndDate    *time.Time
	Status         EmployeeStatus
	Assets         map[Kind]string
}

// EmployeeProfile is a partial update of the non-assignment fields.
type EmployeeProfile struct {
	Name           *string
	Department     *string
	EmploymentType *EmploymentType
	TempEndDate    *time.Time
	Status         *EmployeeStatus
}

func (p EmployeeProfile) Empty() bool {
	return p.Name == nil &&
		p.Department == nil &&
		p.EmploymentType == nil &&
		p.TempEndDate == nil &&
		p.Status == nil
}

type UpdateEmployeeParams struct {
	ID      string
	Profile EmployeeProfile
	Assets  map[Kind]Reference
}
