package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// los errores reportan el nombre JSON/query del campo
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// bindJSON parsea y valida el cuerpo. Devuelve un error listo para writeError.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}
	return validateStruct(out)
}

// bindQuery parsea y valida el querystring.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros inválidos")
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fieldPath(fe.Namespace()), "no cumple la regla "+fe.Tag())
	}
	return domain.NewValidationError("body", err.Error())
}

// fieldPath "SignupRequest.company.slug" -> "company.slug". Omite structs embebidos (nombres Go).
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == 0 || p == "" || (i < len(parts)-1 && p[0] >= 'A' && p[0] <= 'Z') {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INVALID_REQUEST"
		if fe.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		}
		return fe.Code, dto.ErrorResponse{Code: code, Message: fe.Message}
	}

	var field string
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		field = ve.Field
	}

	switch {
	case errors.Is(err, domain.ErrRouteClosed):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "ROUTE_CLOSED", Message: err.Error()}
	case errors.Is(err, domain.ErrConcurrentModification):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "la ruta fue modificada por otra operación, intente de nuevo"}
	case errors.Is(err, domain.ErrDriverHasActiveRoute):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DRIVER_HAS_ACTIVE_ROUTE", Message: domain.ErrDriverHasActiveRoute.Error(), Field: field}
	case errors.Is(err, domain.ErrServiceAlreadyPaid):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "SERVICE_ALREADY_PAID", Message: domain.ErrServiceAlreadyPaid.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: domain.ErrEmailAlreadyExists.Error(), Field: field}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error(), Field: field}
	case errors.Is(err, domain.ErrTransactionConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "la operación chocó con otra transacción, intente de nuevo"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrTenantMismatch), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		// un recurso de otra empresa es indistinguible de uno inexistente
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.Is(err, domain.ErrInvalidPaymentAmount):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "INVALID_PAYMENT_AMOUNT", Message: domain.ErrInvalidPaymentAmount.Error(), Field: field}
	case errors.Is(err, domain.ErrInvalidPaymentState):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "INVALID_PAYMENT_STATE", Message: domain.ErrInvalidPaymentState.Error(), Field: field}
	case ve != nil, errors.Is(err, domain.ErrInvalidInput):
		msg := err.Error()
		if ve != nil && ve.Message != "" {
			msg = ve.Message
		}
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "VALIDATION", Message: msg, Field: field}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

// ErrorHandler para fiber: errores no manejados por los handlers (404 de rutas, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}
