package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/application/receivables"
)

// ReceivablesHandler cartera por cliente.
type ReceivablesHandler struct {
	uc *receivables.UseCase
}

// NewReceivablesHandler construye el handler.
func NewReceivablesHandler(uc *receivables.UseCase) *ReceivablesHandler {
	return &ReceivablesHandler{uc: uc}
}

// Summary godoc
// @Summary      Cartera pendiente por cliente y por edad
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "hasta (YYYY-MM-DD)"
// @Success      200   {object}  dto.ReceivablesSummaryResponse
// @Router       /api/receivables [get]
func (h *ReceivablesHandler) Summary(c *fiber.Ctx) error {
	var q dto.ReceivablesQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Summary(c.UserContext(), actorOf(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ClientDetail godoc
// @Summary      Servicios pendientes de un cliente
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del cliente"
// @Param        from  query  string  false  "desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "hasta (YYYY-MM-DD)"
// @Success      200   {object}  dto.ClientReceivablesResponse
// @Router       /api/receivables/clients/{id} [get]
func (h *ReceivablesHandler) ClientDetail(c *fiber.Ctx) error {
	var q dto.ReceivablesQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ClientDetail(c.UserContext(), actorOf(c), c.Params("id"), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
