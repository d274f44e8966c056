package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/you-humble/asset-tracker/internal/converter"
	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/transport/http/dto"
	"github.com/you-humble/asset-tracker/internal/transport/http/response"
)

type AssetService interface {
	CreateAsset(ctx context.Context, p model.CreateAssetParams) (*model.Asset, error)
	UpdateAsset(ctx context.Context, p model.UpdateAssetParams) (*model.Asset, error)
	DeleteAsset(ctx context.Context, kind model.Kind, id string) error
}

type InventoryService interface {
	Asset(ctx context.Context, kind model.Kind, id string) (*model.Asset, error)
	ListAssets(ctx context.Context, kind model.Kind, filter model.AssetsFilter) ([]*model.Asset, error)
	RepairList(ctx context.Context, kind model.Kind) ([]*model.Asset, error)
	Stats(ctx context.Context, kind model.Kind) (model.AssetStats, error)
}

type handler struct {
	assets    AssetService
	inventory InventoryService
}

func NewAssetHandler(assets AssetService, inventory InventoryService) *handler {
	return &handler{assets: assets, inventory: inventory}
}

func (h *handler) Routes(r chi.Router) {
	r.Route("/assets/{kind}", func(r chi.Router) {
		r.Post("/", h.CreateAsset)
		r.Get("/", h.ListAssets)
		r.Get("/stats", h.Stats)
		r.Get("/repair", h.RepairList)
		r.Get("/{id}", h.GetAsset)
		r.Put("/{id}", h.UpdateAsset)
		r.Delete("/{id}", h.DeleteAsset)
	})
}

func kindParam(r *http.Request) (model.Kind, error) {
	return model.ParseKind(chi.URLParam(r, "kind"))
}

func (h *handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := kindParam(r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}
	fields, err := response.DecodeFields(w, r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}
	params, err := converter.CreateAssetRequestToParams(kind, fields)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	a, err := h.assets.CreateAsset(ctx, params)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusCreated, converter.AssetToDTO(a))
}

func (h *handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := kindParam(r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	q := r.URL.Query()
	filter := model.AssetsFilter{AssignedTo: strings.TrimSpace(q.Get("assigned_to"))}
	for _, raw := range q["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, model.Status(strings.ToUpper(s)))
			}
		}
	}

	assets, err := h.inventory.ListAssets(ctx, kind, filter)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.AssetsToDTO(assets))
}

func (h *handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := kindParam(r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	st, err := h.inventory.Stats(ctx, kind)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.AssetStatsToDTO(st))
}

func (h *handler) RepairList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := kindParam(r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	assets, err := h.inventory.RepairList(ctx, kind)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.AssetsToDTO(assets))
}

func (h *handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := kindParam(r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	a, err := h.inventory.Asset(ctx, kind, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.AssetToDTO(a))
}

func (h *handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := kindParam(r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}
	fields, err := response.DecodeFields(w, r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}
	params, err := converter.UpdateAssetRequestToParams(kind, chi.URLParam(r, "id"), fields)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	a, err := h.assets.UpdateAsset(ctx, params)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.AssetToDTO(a))
}

func (h *handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := kindParam(r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	if err := h.assets.DeleteAsset(ctx, kind, chi.URLParam(r, "id")); err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, dto.Message{Message: "Deleted successfully"})
}
