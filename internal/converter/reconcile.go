package converter

import (
	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/transport/http/dto"
)

func RepairActionsToDTO(in []model.RepairAction) []dto.RepairAction {
	out := make([]dto.RepairAction, 0, len(in))
	for _, a := range in {
		out = append(out, dto.RepairAction{
			Kind:       string(a.Kind),
			AssetID:    a.AssetID,
			EmployeeID: a.EmployeeID,
			Action:     a.Action,
			Reason:     a.Reason,
		})
	}
	return out
}

func ReconcileReportToDTO(r *model.ReconcileReport) dto.ReconcileReport {
	return dto.ReconcileReport{
		AssetsChecked:    r.AssetsChecked,
		EmployeesChecked: r.EmployeesChecked,
		IntentsResolved:  r.IntentsResolved,
		Actions:          RepairActionsToDTO(r.Actions),
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
	}
}
