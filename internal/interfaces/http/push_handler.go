package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/application/notification"
)

// PushHandler suscripciones Web Push del usuario.
type PushHandler struct {
	svc *notification.Service
}

// NewPushHandler construye el handler.
func NewPushHandler(svc *notification.Service) *PushHandler {
	return &PushHandler{svc: svc}
}

// Subscribe godoc
// @Summary      Registrar suscripción push del navegador
// @Tags         push
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PushSubscribeRequest  true  "PushSubscription.toJSON()"
// @Success      201
// @Router       /api/push/subscribe [post]
func (h *PushHandler) Subscribe(c *fiber.Ctx) error {
	var in dto.PushSubscribeRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.svc.Subscribe(c.UserContext(), actorOf(c), in, c.Get(fiber.HeaderUserAgent)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Unsubscribe godoc
// @Summary      Eliminar todas las suscripciones del usuario
// @Tags         push
// @Security     Bearer
// @Produce      json
// @Success      200
// @Router       /api/push/subscriptions [delete]
func (h *PushHandler) Unsubscribe(c *fiber.Ctx) error {
	n, err := h.svc.UnsubscribeAll(c.UserContext(), actorOf(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}

// Status godoc
// @Summary      Estado de las notificaciones del usuario
// @Tags         push
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PushStatusResponse
// @Router       /api/push/status [get]
func (h *PushHandler) Status(c *fiber.Ctx) error {
	out, err := h.svc.Status(c.UserContext(), actorOf(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Test godoc
// @Summary      Enviar notificación de prueba a mis dispositivos
// @Tags         push
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PushTestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/push/test [post]
func (h *PushHandler) Test(c *fiber.Ctx) error {
	out, err := h.svc.SendTest(c.UserContext(), actorOf(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
