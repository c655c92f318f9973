package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Acarreo-api/internal/application/delivery"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
)

// ServiceHandler servicios: edición, cobros, recogida/entrega y comentarios.
type ServiceHandler struct {
	uc *delivery.ServiceUseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *delivery.ServiceUseCase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

// Mine godoc
// @Summary      Servicios del conductor autenticado
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        pending  query  bool  false  "solo sin entregar"
// @Param        active   query  bool  false  "solo rutas activas"
// @Success      200  {array}  dto.ServiceResponse
// @Router       /api/services/mine [get]
func (h *ServiceHandler) Mine(c *fiber.Ctx) error {
	var q dto.MyServicesQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListMine(c.UserContext(), actorOf(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Detail godoc
// @Summary      Detalle del servicio
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) Detail(c *fiber.Ctx) error {
	out, err := h.uc.Detail(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar servicio
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del servicio"
// @Param        body  body  dto.UpdateServiceRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ServiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/services/{id} [put]
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateServiceRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), actorOf(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar servicio
// @Tags         services
// @Security     Bearer
// @Param        id   path  string  true  "ID del servicio"
// @Success      204
// @Router       /api/services/{id} [delete]
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorOf(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Payment godoc
// @Summary      Registrar abono del servicio
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del servicio"
// @Param        body  body  dto.PaymentRequest  true  "Monto cobrado"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/services/{id}/payments [post]
func (h *ServiceHandler) Payment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RecordPayment(c.UserContext(), actorOf(c), c.Params("id"), in.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MarkPaid godoc
// @Summary      Marcar servicio como pagado
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Router       /api/services/{id}/mark-paid [post]
func (h *ServiceHandler) MarkPaid(c *fiber.Ctx) error {
	out, err := h.uc.MarkPaid(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Pickup godoc
// @Summary      Marcar recogida
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del servicio"
// @Param        body  body  dto.TrackRequest  false  "Coordenadas"
// @Success      200   {object}  dto.ServiceResponse
// @Router       /api/services/{id}/pickup [post]
func (h *ServiceHandler) Pickup(c *fiber.Ctx) error {
	in, err := trackBody(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MarkPickedUp(c.UserContext(), actorOf(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delivery godoc
// @Summary      Marcar entrega
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del servicio"
// @Param        body  body  dto.TrackRequest  false  "Coordenadas"
// @Success      200   {object}  dto.ServiceResponse
// @Router       /api/services/{id}/delivery [post]
func (h *ServiceHandler) Delivery(c *fiber.Ctx) error {
	in, err := trackBody(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MarkDelivered(c.UserContext(), actorOf(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// trackBody el cuerpo es opcional: sin coordenadas también se marca.
func trackBody(c *fiber.Ctx) (dto.TrackRequest, error) {
	var in dto.TrackRequest
	if len(c.Body()) == 0 {
		return in, nil
	}
	err := bindJSON(c, &in)
	return in, err
}

// AddComment godoc
// @Summary      Comentar servicio
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del servicio"
// @Param        body  body  dto.CommentRequest  true  "Comentario"
// @Success      201   {object}  dto.CommentResponse
// @Router       /api/services/{id}/comments [post]
func (h *ServiceHandler) AddComment(c *fiber.Ctx) error {
	var in dto.CommentRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AddComment(c.UserContext(), actorOf(c), c.Params("id"), in.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListComments godoc
// @Summary      Comentarios del servicio
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {array}  dto.CommentResponse
// @Router       /api/services/{id}/comments [get]
func (h *ServiceHandler) ListComments(c *fiber.Ctx) error {
	out, err := h.uc.ListComments(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
