package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	apphttp "github.com/jhoicas/Acarreo-api/internal/interfaces/http"
)

// failing responde siempre con err a través del ErrorHandler de la API.
func failing(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/", func(*fiber.Ctx) error { return err })
	return app
}

func TestErrorHandler_CodigosDeDominio(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		code   string
	}{
		"conflicto de transacción": {
			fmt.Errorf("commit transaction: %w", domain.ErrTransactionConflict), http.StatusConflict, "CONCURRENT_MODIFICATION",
		},
		"ruta cerrada":     {domain.ErrRouteClosed, http.StatusConflict, "ROUTE_CLOSED"},
		"modificada":       {domain.ErrConcurrentModification, http.StatusConflict, "CONCURRENT_MODIFICATION"},
		"duplicado":        {domain.FieldError("slug", domain.ErrDuplicate), http.StatusConflict, "DUPLICATE"},
		"otra empresa":     {domain.ErrTenantMismatch, http.StatusNotFound, "NOT_FOUND"},
		"abono inválido":   {domain.FieldError("amount", domain.ErrInvalidPaymentAmount), http.StatusUnprocessableEntity, "INVALID_PAYMENT_AMOUNT"},
		"validación":       {domain.NewValidationError("format", "formato no soportado"), http.StatusUnprocessableEntity, "VALIDATION"},
		"error inesperado": {fmt.Errorf("disco lleno"), http.StatusInternalServerError, "INTERNAL"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := failing(tc.err).Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeBody(t, resp).Code)
		})
	}
}

func TestErrorHandler_DuplicadoDentroDeConflictoConservaElCampo(t *testing.T) {
	err := fmt.Errorf("%w: %w", domain.ErrTransactionConflict, domain.FieldError("plate", domain.ErrDuplicate))

	resp, tErr := failing(err).Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, tErr)
	defer resp.Body.Close()

	out := decodeBody(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", out.Code, "el duplicado de negocio gana sobre el conflicto genérico")
	assert.Equal(t, "plate", out.Field)
}

func decodeBody(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
