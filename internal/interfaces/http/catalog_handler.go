package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/application/usecase"
)

// CatalogHandler clientes y vehículos de la empresa.
type CatalogHandler struct {
	clients  *usecase.ClientUseCase
	vehicles *usecase.VehicleUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(clients *usecase.ClientUseCase, vehicles *usecase.VehicleUseCase) *CatalogHandler {
	return &CatalogHandler{clients: clients, vehicles: vehicles}
}

// CreateClient godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClientRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *CatalogHandler) CreateClient(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.clients.Create(c.UserContext(), actorOf(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateClient godoc
// @Summary      Editar o desactivar cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.ClientRequest  true  "Datos del cliente"
// @Success      200   {object}  dto.ClientResponse
// @Router       /api/clients/{id} [put]
func (h *CatalogHandler) UpdateClient(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.clients.Update(c.UserContext(), actorOf(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetClient godoc
// @Summary      Obtener cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *CatalogHandler) GetClient(c *fiber.Ctx) error {
	out, err := h.clients.Get(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListClients godoc
// @Summary      Listar clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "solo activos"
// @Success      200     {array}  dto.ClientResponse
// @Router       /api/clients [get]
func (h *CatalogHandler) ListClients(c *fiber.Ctx) error {
	out, err := h.clients.List(c.UserContext(), actorOf(c), c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateVehicle godoc
// @Summary      Crear vehículo
// @Tags         vehicles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VehicleRequest  true  "Datos del vehículo"
// @Success      201   {object}  dto.VehicleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vehicles [post]
func (h *CatalogHandler) CreateVehicle(c *fiber.Ctx) error {
	var in dto.VehicleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.vehicles.Create(c.UserContext(), actorOf(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateVehicle godoc
// @Summary      Editar o desactivar vehículo
// @Tags         vehicles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del vehículo"
// @Param        body  body  dto.VehicleRequest  true  "Datos del vehículo"
// @Success      200   {object}  dto.VehicleResponse
// @Router       /api/vehicles/{id} [put]
func (h *CatalogHandler) UpdateVehicle(c *fiber.Ctx) error {
	var in dto.VehicleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.vehicles.Update(c.UserContext(), actorOf(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListVehicles godoc
// @Summary      Listar vehículos
// @Tags         vehicles
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "solo activos"
// @Success      200     {array}  dto.VehicleResponse
// @Router       /api/vehicles [get]
func (h *CatalogHandler) ListVehicles(c *fiber.Ctx) error {
	out, err := h.vehicles.List(c.UserContext(), actorOf(c), c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
