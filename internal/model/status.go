package model

import "fmt"

type Status string

const (
	StatusStore  Status = "STORE"
	StatusUsed   Status = "USED"
	StatusRepair Status = "REPAIR"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusStore, StatusUsed, StatusRepair:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVE"
	EmployeeInactive EmployeeStatus = "INACTIVE"
)

func ParseEmployeeStatus(s string) (EmployeeStatus, error) {
	switch st := EmployeeStatus(s); st {
	case EmployeeActive, EmployeeInactive:
		return st, nil
	default:
		return "", fmt.Errorf("%w: employee status %q", ErrValidation, s)
	}
}

type EmploymentType string

const (
	EmploymentTemporary EmploymentType = "Temporary"
	EmploymentPermanent EmploymentType = "Permanent"
)

func ParseEmploymentType(s string) (EmploymentType, error) {
	switch t := EmploymentType(s); t {
	case EmploymentTemporary, EmploymentPermanent:
		return t, nil
	default:
		return "", fmt.Errorf("%w: employment type %q", ErrValidation, s)
	}
}
