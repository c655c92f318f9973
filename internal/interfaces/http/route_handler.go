package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Acarreo-api/internal/application/delivery"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/application/notification"
	"github.com/jhoicas/Acarreo-api/internal/application/report"
	"github.com/jhoicas/Acarreo-api/internal/application/routing"
)

// RouteHandler rutas, caja, cierre y exportes.
type RouteHandler struct {
	routes   *routing.RouteUseCase
	services *delivery.ServiceUseCase
	reports  *report.UseCase
	events   notification.Dispatcher
}

// NewRouteHandler construye el handler.
func NewRouteHandler(routes *routing.RouteUseCase, services *delivery.ServiceUseCase, reports *report.UseCase, events notification.Dispatcher) *RouteHandler {
	return &RouteHandler{routes: routes, services: services, reports: reports, events: events}
}

// Create godoc
// @Summary      Crear ruta
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRouteRequest  true  "Datos de la ruta"
// @Success      201   {object}  dto.RouteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/routes [post]
func (h *RouteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRouteRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, ev, err := h.routes.Create(c.UserContext(), actorOf(c), in)
	if err != nil {
		return writeError(c, err)
	}
	if ev != nil {
		h.events.Dispatch(c.UserContext(), *ev)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar rutas
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        from      query  string  false  "desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "hasta (YYYY-MM-DD)"
// @Param        vehicles  query  string  false  "ids de vehículo separados por coma"
// @Param        clients   query  string  false  "ids de cliente separados por coma"
// @Param        state     query  string  false  "ACTIVE | CLOSED"
// @Param        q         query  string  false  "búsqueda por nombre, placa o conductor"
// @Success      200  {array}  dto.RouteResponse
// @Router       /api/routes [get]
func (h *RouteHandler) List(c *fiber.Ctx) error {
	var q dto.RouteListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.routes.List(c.UserContext(), actorOf(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener ruta
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {object}  dto.RouteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routes/{id} [get]
func (h *RouteHandler) Get(c *fiber.Ctx) error {
	out, err := h.routes.Get(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar ruta activa
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la ruta"
// @Param        body  body  dto.UpdateRouteRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.RouteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/routes/{id} [put]
func (h *RouteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRouteRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.routes.Update(c.UserContext(), actorOf(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ruta activa
// @Tags         routes
// @Security     Bearer
// @Param        id   path  string  true  "ID de la ruta"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/routes/{id} [delete]
func (h *RouteHandler) Delete(c *fiber.Ctx) error {
	if err := h.routes.Delete(c.UserContext(), actorOf(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sheet godoc
// @Summary      Planilla de la ruta con totales en vivo
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {object}  dto.RouteSheetResponse
// @Router       /api/routes/{id}/sheet [get]
func (h *RouteHandler) Sheet(c *fiber.Ctx) error {
	out, err := h.routes.Sheet(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddMovement godoc
// @Summary      Registrar ingreso o gasto de caja
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la ruta"
// @Param        body  body  dto.CashMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.CashMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/movements [post]
func (h *RouteHandler) AddMovement(c *fiber.Ctx) error {
	var in dto.CashMovementRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.routes.AddMovement(c.UserContext(), actorOf(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Trail godoc
// @Summary      Recorrido de la ruta (puntos de recogida y entrega)
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {array}  dto.TrailPoint
// @Router       /api/routes/{id}/trail [get]
func (h *RouteHandler) Trail(c *fiber.Ctx) error {
	out, err := h.routes.Trail(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar ruta
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {object}  dto.ClosingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/close [post]
func (h *RouteHandler) Close(c *fiber.Ctx) error {
	out, err := h.routes.Close(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen del cierre
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {object}  dto.ClosingSummaryResponse
// @Router       /api/routes/{id}/closing [get]
func (h *RouteHandler) Summary(c *fiber.Ctx) error {
	out, err := h.routes.Summary(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportCSV godoc
// @Summary      Cierre en CSV
// @Tags         routes
// @Security     Bearer
// @Produce      text/csv
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {file}  file
// @Router       /api/routes/{id}/closing.csv [get]
func (h *RouteHandler) ExportCSV(c *fiber.Ctx) error { return h.export(c, report.FormatCSV) }

// ExportXLSX godoc
// @Summary      Cierre en Excel (hojas Resumen, Servicios, Movimientos y Notas)
// @Tags         routes
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {file}  file
// @Router       /api/routes/{id}/closing.xlsx [get]
func (h *RouteHandler) ExportXLSX(c *fiber.Ctx) error { return h.export(c, report.FormatXLSX) }

// ExportPDF godoc
// @Summary      Cierre en PDF
// @Tags         routes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {file}  file
// @Router       /api/routes/{id}/closing.pdf [get]
func (h *RouteHandler) ExportPDF(c *fiber.Ctx) error { return h.export(c, report.FormatPDF) }

func (h *RouteHandler) export(c *fiber.Ctx, format string) error {
	file, err := h.reports.Export(c.UserContext(), actorOf(c), c.Params("id"), format)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	return c.Send(file.Data)
}

// CreateService godoc
// @Summary      Agregar servicio a la ruta
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la ruta"
// @Param        body  body  dto.CreateServiceRequest  true  "Datos del servicio"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/services [post]
func (h *RouteHandler) CreateService(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, ev, err := h.services.Create(c.UserContext(), actorOf(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if ev != nil {
		h.events.Dispatch(c.UserContext(), *ev)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReorderServices godoc
// @Summary      Reordenar servicios de la ruta
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la ruta"
// @Param        body  body  dto.ReorderRequest  true  "IDs en el nuevo orden"
// @Success      200   {array}  dto.ServiceResponse
// @Router       /api/routes/{id}/services/order [put]
func (h *RouteHandler) ReorderServices(c *fiber.Ctx) error {
	var in dto.ReorderRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.services.Reorder(c.UserContext(), actorOf(c), c.Params("id"), in.IDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
