package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/you-humble/asset-tracker/internal/converter"
	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/transport/http/response"
)

type ReconcileService interface {
	Sweep(ctx context.Context) (*model.ReconcileReport, error)
	RepairAsset(ctx context.Context, kind model.Kind, id string) ([]model.RepairAction, error)
	RepairEmployee(ctx context.Context, id string) ([]model.RepairAction, error)
}

type handler struct {
	svc ReconcileService
}

func NewReconcileHandler(svc ReconcileService) *handler {
	return &handler{svc: svc}
}

func (h *handler) Routes(r chi.Router) {
	r.Route("/reconcile", func(r chi.Router) {
		r.Post("/", h.Sweep)
		r.Post("/assets/{kind}/{id}", h.RepairAsset)
		r.Post("/employees/{id}", h.RepairEmployee)
	})
}

// Sweep answers 200 with the report even when some repairs failed; the
// failures are listed in the error field.
func (h *handler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.svc.Sweep(ctx)
	if report == nil {
		response.Error(ctx, w, err)
		return
	}

	out := converter.ReconcileReportToDTO(report)
	if err != nil {
		out.Error = err.Error()
	}
	response.JSON(ctx, w, http.StatusOK, out)
}

func (h *handler) RepairAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := model.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	actions, err := h.svc.RepairAsset(ctx, kind, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.RepairActionsToDTO(actions))
}

func (h *handler) RepairEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actions, err := h.svc.RepairEmployee(ctx, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.RepairActionsToDTO(actions))
}
