package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sigcpef/personnel-api/internal/core/ports"
)

// SanctionHandler serves the ICAP disciplinary records.
type SanctionHandler struct {
	service ports.SanctionService
}

func NewSanctionHandler(service ports.SanctionService) *SanctionHandler {
	return &SanctionHandler{service: service}
}

// List handles GET /api/icap/sanciones.
//
// @Summary      List sanctions
// @Tags         icap
// @Produce      json
// @Security     BearerAuth
// @Param        funcionarioId  query     string  false  "Employee id"
// @Success      200            {object}  dataResponse{data=[]domain.Sanction}
// @Failure      401            {object}  errorResponse
// @Failure      403            {object}  errorResponse
// @Router       /api/icap/sanciones [get]
func (h *SanctionHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context(), c.QueryParam("funcionarioId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope(list))
}

// Create handles POST /api/icap/sanciones.
//
// @Summary      Register a sanction
// @Tags         icap
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSanctionRequest  true  "Sanction"
// @Success      201   {object}  dataResponse{data=domain.Sanction}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/icap/sanciones [post]
func (h *SanctionHandler) Create(c echo.Context) error {
	var req createSanctionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), ports.SanctionInput{
		EmployeeID:  req.Funcionario,
		Tipo:        req.Tipo,
		Descripcion: req.Descripcion,
		Sancionante: req.Sancionante,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope(created))
}

// Types handles GET /api/icap/tipos.
//
// @Summary      Sanction types
// @Tags         icap
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse{data=[]string}
// @Router       /api/icap/tipos [get]
func (h *SanctionHandler) Types(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope(h.service.Types()))
}
