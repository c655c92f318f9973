package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Acarreo-api/internal/application/analytics"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
)

// DashboardHandler tablero de gerencia.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Tablero de gerencia: mes en curso, contadores del día e indicadores del periodo
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        range      query  string  false  "mes | 7d | 30d | custom"
// @Param        from       query  string  false  "desde (YYYY-MM-DD), solo custom"
// @Param        to         query  string  false  "hasta (YYYY-MM-DD), solo custom"
// @Param        driver_id  query  string  false  "filtra el periodo por conductor"
// @Success      200        {object}  dto.DashboardSummaryResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      422        {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var q dto.DashboardQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetSummary(c.UserContext(), actorOf(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
