package model

import (
	"time"

	"github.com/google/uuid"
)

type Transition string

const (
	TransitionAssign   Transition = "assign"
	TransitionReassign Transition = "reassign"
	TransitionRelease  Transition = "release"
	TransitionRetain   Transition = "retain"
	TransitionDelete   Transition = "delete"
)

// AssignmentEvent is published after a coordinator sequence finished.
type AssignmentEvent struct {
	EventID    uuid.UUID
	Kind       Kind
	AssetID    string
	From       string
	To         string
	Transition Transition
	OccurredAt time.Time
}

type IntentState string

const (
	IntentPending   IntentState = "PENDING"
	IntentCommitted IntentState = "COMMITTED"
	IntentAborted   IntentState = "ABORTED"
	IntentRepaired  IntentState = "REPAIRED"
)

// Intent records a multi-step assignment sequence so that a crash between
// steps can be found and repaired later.
type Intent struct {
	ID         string
	Kind       Kind
	AssetID    string
	From       string
	To         string
	Transition Transition
	Steps      []string
	State      IntentState
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type RepairAction struct {
	Kind       Kind
	AssetID    string
	EmployeeID string
	Action     string
	Reason     string
}

type ReconcileReport struct {
	AssetsChecked    int
	EmployeesChecked int
	IntentsResolved  int
	Actions          []RepairAction
	StartedAt        time.Time
	FinishedAt       time.Time
}
