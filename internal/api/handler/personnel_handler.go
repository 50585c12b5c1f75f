package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sigcpef/personnel-api/internal/core/ports"
)

// PersonnelHandler serves the RRHH staff CRUD and the Operations lookup.
type PersonnelHandler struct {
	service ports.PersonnelService
}

func NewPersonnelHandler(service ports.PersonnelService) *PersonnelHandler {
	return &PersonnelHandler{service: service}
}

// List handles GET /api/rrhh/funcionarios.
//
// @Summary      List employees
// @Tags         rrhh
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Search on nombre, apellido, ci"
// @Success      200  {object}  dataResponse{data=[]domain.Employee}
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/rrhh/funcionarios [get]
func (h *PersonnelHandler) List(c echo.Context) error {
	list, err := h.service.ListEmployees(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope(list))
}

// Create handles POST /api/rrhh/funcionarios.
//
// @Summary      Create an employee
// @Tags         rrhh
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "Employee"
// @Success      201   {object}  dataResponse{data=domain.Employee}
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/rrhh/funcionarios [post]
func (h *PersonnelHandler) Create(c echo.Context) error {
	var req createEmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.service.CreateEmployee(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope(created))
}

// Update handles PUT /api/rrhh/funcionarios. The id travels in the body.
//
// @Summary      Update an employee
// @Tags         rrhh
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateEmployeeRequest  true  "Employee id and changed fields"
// @Success      200   {object}  dataResponse{data=domain.Employee}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/rrhh/funcionarios [put]
func (h *PersonnelHandler) Update(c echo.Context) error {
	var req updateEmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateEmployee(c.Request().Context(), req.ID, req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope(updated))
}

// Delete handles DELETE /api/rrhh/funcionarios.
//
// @Summary      Delete an employee
// @Tags         rrhh
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteEmployeeRequest  true  "Employee id"
// @Success      200   {object}  dataResponse{data=domain.Employee}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/rrhh/funcionarios [delete]
func (h *PersonnelHandler) Delete(c echo.Context) error {
	var req deleteEmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	deleted, err := h.service.DeleteEmployee(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope(deleted))
}

// Search handles GET /api/operaciones/consultas.
//
// @Summary      Operational staff lookup
// @Tags         operaciones
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Search on nombre, apellido, ci, unidad"
// @Success      200  {object}  dataResponse{data=[]domain.EmployeeSummary}
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/operaciones/consultas [get]
func (h *PersonnelHandler) Search(c echo.Context) error {
	list, err := h.service.SearchEmployees(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope(list))
}
