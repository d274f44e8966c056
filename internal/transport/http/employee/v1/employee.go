package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/you-humble/asset-tracker/internal/converter"
	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/transport/http/dto"
	"github.com/you-humble/asset-tracker/internal/transport/http/response"
)

type EmployeeService interface {
	CreateEmployee(ctx context.Context, p model.CreateEmployeeParams) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, p model.UpdateEmployeeParams) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type InventoryService interface {
	Employee(ctx context.Context, id string) (*model.Employee, error)
	ListEmployees(ctx context.Context) ([]*model.Employee, error)
	AvailableEmployees(ctx context.Context, kind model.Kind) ([]*model.Employee, error)
}

type handler struct {
	employees EmployeeService
	inventory InventoryService
}

func NewEmployeeHandler(employees EmployeeService, inventory InventoryService) *handler {
	return &handler{employees: employees, inventory: inventory}
}

func (h *handler) Routes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Post("/", h.CreateEmployee)
		r.Get("/", h.ListEmployees)
		r.Get("/available/{kind}", h.AvailableEmployees)
		r.Get("/{id}", h.GetEmployee)
		r.Put("/{id}", h.UpdateEmployee)
		r.Delete("/{id}", h.DeleteEmployee)
	})
}

func (h *handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, err := response.DecodeFields(w, r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}
	params, err := converter.CreateEmployeeRequestToParams(fields)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	e, err := h.employees.CreateEmployee(ctx, params)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusCreated, converter.EmployeeToDTO(e))
}

func (h *handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	emps, err := h.inventory.ListEmployees(ctx)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.EmployeesToDTO(emps))
}

func (h *handler) AvailableEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := model.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	emps, err := h.inventory.AvailableEmployees(ctx, kind)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.EmployeesToDTO(emps))
}

func (h *handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	e, err := h.inventory.Employee(ctx, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.EmployeeToDTO(e))
}

func (h *handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, err := response.DecodeFields(w, r)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}
	params, err := converter.UpdateEmployeeRequestToParams(chi.URLParam(r, "id"), fields)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	e, err := h.employees.UpdateEmployee(ctx, params)
	if err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, converter.EmployeeToDTO(e))
}

func (h *handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.employees.DeleteEmployee(ctx, chi.URLParam(r, "id")); err != nil {
		response.Error(ctx, w, err)
		return
	}

	response.JSON(ctx, w, http.StatusOK, dto.Message{Message: "Deleted successfully"})
}
