package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/samber/lo"

	"github.com/you-humble/asset-tracker/internal/model"
)

const (
	stateUnassigned = "unassigned"
	stateAssigned   = "assigned"
	stateRepair     = "repair"
)

const (
	eventAssign    = "assign"
	eventReinstate = "reinstate"
	eventReassign  = "reassign"
	eventRelease   = "release"
	eventRetain    = "retain"
	eventReturn    = "return"
	eventWithdraw  = "withdraw"
	eventHold      = "hold"
)

// Leaving repair takes an explicit status change: an asset in repair can be
// reinstated or returned, never just assigned.
var lifecycleEvents = fsm.Events{
	{Name: eventAssign, Src: []string{stateUnassigned}, Dst: stateAssigned},
	{Name: eventReinstate, Src: []string{stateUnassigned, stateRepair}, Dst: stateAssigned},
	{Name: eventReassign, Src: []string{stateAssigned}, Dst: stateAssigned},
	{Name: eventRelease, Src: []string{stateAssigned}, Dst: stateUnassigned},
	{Name: eventRetain, Src: []string{stateUnassigned}, Dst: stateUnassigned},
	{Name: eventReturn, Src: []string{stateUnassigned, stateRepair}, Dst: stateUnassigned},
	{Name: eventWithdraw, Src: []string{stateUnassigned, stateAssigned, stateRepair}, Dst: stateRepair},
	{Name: eventHold, Src: []string{stateRepair}, Dst: stateRepair},
}

func stateOf(a *model.Asset) string {
	switch {
	case a.Status == model.StatusRepair:
		return stateRepair
	case a.Holder() != "":
		return stateAssigned
	default:
		return stateUnassigned
	}
}

// lifecycleEvent names the change w asks for, given the current holder.
func lifecycleEvent(from string, w model.AssetWrite) string {
	to := lo.FromPtr(w.AssignedTo)
	switch {
	case to != "" && from != "":
		return eventReassign
	case to != "" && w.StatusSet:
		return eventReinstate
	case to != "":
		return eventAssign
	case w.Status == model.StatusRepair && w.StatusSet:
		return eventWithdraw
	case w.Status == model.StatusRepair:
		return eventHold
	case from != "":
		return eventRelease
	case w.StatusSet:
		return eventReturn
	default:
		return eventRetain
	}
}

// fire runs event against a machine started in the state of a.
func fire(ctx context.Context, a *model.Asset, event string) error {
	machine := fsm.NewFSM(stateOf(a), lifecycleEvents, fsm.Callbacks{})

	err := machine.Event(ctx, event)
	var (
		noop    fsm.NoTransitionError
		invalid fsm.InvalidEventError
	)
	switch {
	case err == nil, errors.As(err, &noop):
		return nil
	case errors.As(err, &invalid):
		return fmt.Errorf("%w: cannot %s asset %s while %s", model.ErrValidation, invalid.Event, a.ID, invalid.State)
	default:
		return fmt.Errorf("%s asset %s: %w", event, a.ID, err)
	}
}

// planTransition checks that cur may be taken to w and names the holder move.
func planTransition(ctx context.Context, cur *model.Asset, w model.AssetWrite) (model.Transition, error) {
	from, to := cur.Holder(), lo.FromPtr(w.AssignedTo)

	if err := fire(ctx, cur, lifecycleEvent(from, w)); err != nil {
		return "", err
	}

	switch {
	case from == "" && to == "":
		return model.TransitionRetain, nil
	case from == "":
		return model.TransitionAssign, nil
	case to == "":
		return model.TransitionRelease, nil
	default:
		return model.TransitionReassign, nil
	}
}

// checkAssignable reports whether a may be handed to an employee without a
// status change.
func checkAssignable(ctx context.Context, a *model.Asset) error {
	event := eventAssign
	if a.Holder() != "" {
		event = eventReassign
	}
	return fire(ctx, a, event)
}
