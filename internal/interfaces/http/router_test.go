package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Acarreo-api/internal/application/analytics"
	"github.com/jhoicas/Acarreo-api/internal/application/auth"
	"github.com/jhoicas/Acarreo-api/internal/application/delivery"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/application/notification"
	"github.com/jhoicas/Acarreo-api/internal/application/receivables"
	"github.com/jhoicas/Acarreo-api/internal/application/report"
	"github.com/jhoicas/Acarreo-api/internal/application/routing"
	"github.com/jhoicas/Acarreo-api/internal/application/usecase"
	"github.com/jhoicas/Acarreo-api/internal/domain/event"
	"github.com/jhoicas/Acarreo-api/internal/infrastructure/export"
	"github.com/jhoicas/Acarreo-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Acarreo-api/internal/interfaces/http"
)

// ─── Helpers ─────────────────────────────────────────────────────────────────

type recordingDispatcher struct {
	mu     sync.Mutex
	events []event.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev event.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *recordingDispatcher) names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.events))
	for _, ev := range d.events {
		out = append(out, ev.Name())
	}
	return out
}

func newTestApp(t *testing.T) (*fiber.App, *recordingDispatcher) {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)

	companies := memory.NewCompanyRepository(store)
	users := memory.NewUserRepository(store)
	clients := memory.NewClientRepository(store)
	vehicles := memory.NewVehicleRepository(store)
	routes := memory.NewRouteRepository(store)
	services := memory.NewServiceRepository(store)
	movements := memory.NewCashMovementRepository(store)
	comments := memory.NewCommentRepository(store)
	subs := memory.NewPushSubscriptionRepository(store)

	engine := routing.NewClosingEngine(tx, 3, zerolog.Nop())
	companyUC := usecase.NewCompanyUseCase(companies)
	events := &recordingDispatcher{}

	app := apphttp.NewApp("acarreo-test", "*")
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(users, companyUC, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}),
		CompanyUC: companyUC,
		ClientUC:  usecase.NewClientUseCase(clients),
		VehicleUC: usecase.NewVehicleUseCase(vehicles),
		RouteUC: routing.NewRouteUseCase(routing.RouteDeps{
			Tx: tx, Routes: routes, Services: services, Movements: movements,
			Vehicles: vehicles, Users: users, Engine: engine,
			DefaultFloat: decimal.NewFromInt(200000),
		}),
		ServiceUC: delivery.NewServiceUseCase(delivery.Deps{
			Tx: tx, Routes: routes, Services: services, Comments: comments, Clients: clients, Users: users,
		}),
		ReceivablesUC: receivables.NewUseCase(services, clients),
		ReportUC: report.NewUseCase(engine, routes, companies, users, map[string]report.Renderer{
			report.FormatCSV:  export.NewCSVRenderer(),
			report.FormatXLSX: export.NewXLSXRenderer(),
		}),
		DashboardUC: analytics.NewDashboardUseCase(memory.NewAnalyticsRepository(store), routes),
		Push:        notification.NewService(subs, users, nil, "", zerolog.Nop()),
		Events:      events,
		JWTSecret:   testJWTSecret,
	})
	return app, events
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func signup(t *testing.T, app *fiber.App, slug, email string) dto.SignupResponse {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		Company:       dto.CreateCompanyRequest{Name: "Acarreos " + slug, Slug: slug, NIT: "900123456"},
		AdminName:     "Admin " + slug,
		AdminEmail:    email,
		AdminPassword: "secreto-123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode[dto.SignupResponse](t, body)
}

// seedRoute empresa con conductor, vehículo, cliente y una ruta activa. Devuelve el token del admin.
func seedRoute(t *testing.T, app *fiber.App, slug string) (string, dto.RouteResponse, dto.ClientResponse) {
	t.Helper()
	admin := signup(t, app, slug, "admin@"+slug+".co").Session.Token

	resp, body := call(t, app, http.MethodPost, "/api/auth/register", admin, dto.RegisterRequest{
		Email: "conductor@" + slug + ".co", Password: "conductor-1", Name: "Conductor " + slug, Role: "conductor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	driver := decode[dto.UserResponse](t, body)

	resp, body = call(t, app, http.MethodPost, "/api/vehicles/", admin, dto.VehicleRequest{Plate: "KLM456"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	vehicle := decode[dto.VehicleResponse](t, body)

	resp, body = call(t, app, http.MethodPost, "/api/clients/", admin, dto.ClientRequest{Name: "Depósito La 80"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	client := decode[dto.ClientResponse](t, body)

	resp, body = call(t, app, http.MethodPost, "/api/routes/", admin, dto.CreateRouteRequest{
		Name: "Ruta " + slug, DepartureDate: time.Now().Format("2006-01-02"), VehicleID: vehicle.ID, DriverID: driver.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return admin, decode[dto.RouteResponse](t, body), client
}

// ─── Flujo completo ──────────────────────────────────────────────────────────

func TestRouter_FlujoCompletoDeRutaHastaCierre(t *testing.T) {
	app, events := newTestApp(t)

	acme := signup(t, app, "acme", "admin@acme.co")
	admin := acme.Session.Token
	assert.Equal(t, "admin", acme.Session.User.Role)

	// conductor
	resp, body := call(t, app, http.MethodPost, "/api/auth/register", admin, dto.RegisterRequest{
		Email: "pedro@acme.co", Password: "conductor-1", Name: "Pedro", Role: "conductor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	driver := decode[dto.UserResponse](t, body)

	resp, body = call(t, app, http.MethodPost, "/api/vehicles/", admin, dto.VehicleRequest{Plate: "ABC123", Brand: "Chevrolet"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	vehicle := decode[dto.VehicleResponse](t, body)

	resp, body = call(t, app, http.MethodPost, "/api/clients/", admin, dto.ClientRequest{Name: "Ferretería El Tornillo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	client := decode[dto.ClientResponse](t, body)

	resp, body = call(t, app, http.MethodPost, "/api/routes/", admin, dto.CreateRouteRequest{
		Name: "Norte", DepartureDate: "2025-03-10", VehicleID: vehicle.ID, DriverID: driver.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	route := decode[dto.RouteResponse](t, body)
	assert.Equal(t, "ACTIVE", route.State)
	assert.True(t, route.OpeningFloat.Equal(decimal.NewFromInt(200000)), "la base por defecto debe ser 200000")

	resp, body = call(t, app, http.MethodPost, "/api/routes/"+route.ID+"/services", admin, dto.CreateServiceRequest{
		ClientID: client.ID, Value: 100000, Origin: "Bodega", Destination: "Centro",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	paidSvc := decode[dto.ServiceResponse](t, body)

	resp, body = call(t, app, http.MethodPost, "/api/routes/"+route.ID+"/services", admin, dto.CreateServiceRequest{
		ClientID: client.ID, Value: 60000, Origin: "Bodega", Destination: "Sur",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	assert.Equal(t, []string{event.NameRouteCreated, event.NameServiceCreated, event.NameServiceCreated}, events.names(),
		"cada alta confirmada debe despachar su evento")

	// el conductor inicia sesión y cobra
	resp, body = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "Pedro@acme.co", Password: "conductor-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	driverToken := decode[dto.LoginResponse](t, body).Token

	resp, body = call(t, app, http.MethodPost, "/api/services/"+paidSvc.ID+"/payments", driverToken, dto.PaymentRequest{Amount: -5})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "abono negativo debe rechazarse")
	assert.Equal(t, "INVALID_PAYMENT_AMOUNT", decode[dto.ErrorResponse](t, body).Code)

	resp, body = call(t, app, http.MethodPost, "/api/services/"+paidSvc.ID+"/payments", driverToken, dto.PaymentRequest{Amount: 100000})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	payment := decode[dto.PaymentResponse](t, body)
	assert.Equal(t, "PAID", payment.Service.PaymentState)
	assert.Equal(t, int64(100000), payment.Movement.Amount)

	resp, body = call(t, app, http.MethodPost, "/api/routes/"+route.ID+"/movements", driverToken, dto.CashMovementRequest{
		Kind: "EXPENSE", Amount: 15000, Memo: "Peajes",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	// cierre por el conductor
	resp, body = call(t, app, http.MethodPost, "/api/routes/"+route.ID+"/close", driverToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	closed := decode[dto.ClosingResponse](t, body)
	assert.Equal(t, driver.ID, closed.GeneratedBy)
	assert.Equal(t, 2, closed.TotalServices)
	assert.Equal(t, int64(100000), closed.TotalCollected)
	assert.Equal(t, int64(60000), closed.TotalOutstanding)
	assert.Equal(t, int64(85000), closed.NetResult)

	resp, body = call(t, app, http.MethodGet, "/api/routes/"+route.ID+"/closing", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	summary := decode[dto.ClosingSummaryResponse](t, body)
	assert.Equal(t, int64(160000), summary.TotalSale)
	assert.Equal(t, int64(100000), summary.InRouteIncome)
	assert.Equal(t, int64(285000), summary.DeliverableCash, "base + ingresos en ruta - gastos")

	// ruta cerrada: no admite más caja
	resp, body = call(t, app, http.MethodPost, "/api/routes/"+route.ID+"/movements", admin, dto.CashMovementRequest{
		Kind: "INCOME", Amount: 1000,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ROUTE_CLOSED", decode[dto.ErrorResponse](t, body).Code)

	resp, body = call(t, app, http.MethodGet, "/api/routes/"+route.ID+"/closing.csv", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment;")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".csv")
	assert.Contains(t, string(body), "285000")
	assert.Contains(t, string(body), "Generado por;Pedro", "el cierre muestra el nombre de quien lo generó")

	resp, body = call(t, app, http.MethodGet, "/api/routes/"+route.ID+"/closing.xlsx", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "un xlsx es un zip")

	// el PDF no está registrado en esta app
	resp, body = call(t, app, http.MethodGet, "/api/routes/"+route.ID+"/closing.pdf", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "format", decode[dto.ErrorResponse](t, body).Field)
}

func TestRouter_ServicioConservaSuRutaEntrePeticiones(t *testing.T) {
	app, _ := newTestApp(t)
	admin, route, client := seedRoute(t, app, "acme")

	resp, body := call(t, app, http.MethodPost, "/api/routes/"+route.ID+"/services", admin, dto.CreateServiceRequest{
		ClientID: client.ID, Value: 40000, Origin: "Bodega", Destination: "Norte",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	svc := decode[dto.ServiceResponse](t, body)

	// peticiones intermedias con otros ids en la URL
	other, _, _ := seedRoute(t, app, "otra")
	call(t, app, http.MethodGet, "/api/routes/"+uuid.NewString(), other, nil)
	call(t, app, http.MethodGet, "/api/services/"+uuid.NewString(), admin, nil)

	resp, body = call(t, app, http.MethodGet, "/api/services/"+svc.ID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, route.ID, decode[dto.ServiceDetailResponse](t, body).RouteID, "el route_id guardado no debe cambiar con las peticiones siguientes")

	resp, body = call(t, app, http.MethodPost, "/api/services/"+svc.ID+"/payments", admin, dto.PaymentRequest{Amount: 40000})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "PAID", decode[dto.PaymentResponse](t, body).Service.PaymentState)
}

// ─── Tablero ─────────────────────────────────────────────────────────────────

func TestRouter_TableroDeGerencia(t *testing.T) {
	app, _ := newTestApp(t)
	admin, route, client := seedRoute(t, app, "acme")

	resp, body := call(t, app, http.MethodPost, "/api/routes/"+route.ID+"/services", admin, dto.CreateServiceRequest{
		ClientID: client.ID, Value: 80000, PaidAmount: 30000, PaymentState: "PARTIAL",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	seedRoute(t, app, "otra")

	resp, body = call(t, app, http.MethodGet, "/api/dashboard/summary?range=7d", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	out := decode[dto.DashboardSummaryResponse](t, body)

	assert.Equal(t, dto.DashboardMonthResponse{Billed: 80000, Collected: 30000, Receivable: 50000, Services: 1}, out.Month)
	assert.Equal(t, 1, out.Counts.ActiveRoutes, "la ruta de la otra empresa no cuenta")
	assert.Equal(t, 1, out.Counts.PendingToday)
	assert.Equal(t, "7d", out.Period.Range)
	assert.Len(t, out.Period.Daily, 7)
	require.Len(t, out.Period.TopClients, 1)
	assert.Equal(t, "Depósito La 80", out.Period.TopClients[0].Name)
	require.Len(t, out.ActiveRoutes, 1)
	assert.Equal(t, route.ID, out.ActiveRoutes[0].ID)

	resp, body = call(t, app, http.MethodGet, "/api/dashboard/summary?range=anual", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "range", decode[dto.ErrorResponse](t, body).Field)

	resp, body = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "conductor@acme.co", Password: "conductor-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, _ = call(t, app, http.MethodGet, "/api/dashboard/summary", decode[dto.LoginResponse](t, body).Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ─── Aislamiento y permisos ──────────────────────────────────────────────────

func TestRouter_OtraEmpresaNoVeLaRuta(t *testing.T) {
	app, _ := newTestApp(t)

	acme := signup(t, app, "acme", "admin@acme.co")
	other := signup(t, app, "otra", "admin@otra.co")

	resp, body := call(t, app, http.MethodPost, "/api/auth/register", acme.Session.Token, dto.RegisterRequest{
		Email: "ana@acme.co", Password: "conductor-1", Name: "Ana", Role: "conductor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	driver := decode[dto.UserResponse](t, body)

	resp, body = call(t, app, http.MethodPost, "/api/vehicles/", acme.Session.Token, dto.VehicleRequest{Plate: "XYZ987"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	vehicle := decode[dto.VehicleResponse](t, body)

	resp, body = call(t, app, http.MethodPost, "/api/routes/", acme.Session.Token, dto.CreateRouteRequest{
		DepartureDate: "2025-03-11", VehicleID: vehicle.ID, DriverID: driver.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	route := decode[dto.RouteResponse](t, body)

	resp, body = call(t, app, http.MethodGet, "/api/routes/"+route.ID, other.Session.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "otra empresa no debe distinguir la ruta de una inexistente")
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)

	resp, _ = call(t, app, http.MethodPost, "/api/routes/"+route.ID+"/close", other.Session.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/routes/", other.Session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.RouteResponse](t, body), 0, "el listado solo incluye rutas de la empresa del token")
}

func TestRouter_ConductorNoCreaRutas(t *testing.T) {
	app, _ := newTestApp(t)
	acme := signup(t, app, "acme", "admin@acme.co")

	resp, body := call(t, app, http.MethodPost, "/api/auth/register", acme.Session.Token, dto.RegisterRequest{
		Email: "luis@acme.co", Password: "conductor-1", Name: "Luis", Role: "conductor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "luis@acme.co", Password: "conductor-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	token := decode[dto.LoginResponse](t, body).Token

	resp, body = call(t, app, http.MethodPost, "/api/routes/", token, dto.CreateRouteRequest{DepartureDate: "2025-03-10"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, body).Code)
}

func TestRouter_ValidacionReportaElCampo(t *testing.T) {
	app, _ := newTestApp(t)
	acme := signup(t, app, "acme", "admin@acme.co")

	resp, body := call(t, app, http.MethodPost, "/api/routes/", acme.Session.Token, map[string]any{
		"departure_date": "2025-03-10",
		"vehicle_id":     "11111111-1111-1111-1111-111111111111",
		"driver_id":      "no-es-uuid",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, body)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "driver_id", errBody.Field)
}

func TestRouter_SinTokenRetorna401(t *testing.T) {
	app, _ := newTestApp(t)
	resp, _ := call(t, app, http.MethodGet, "/api/routes/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_SignupConSlugRepetido(t *testing.T) {
	app, _ := newTestApp(t)
	signup(t, app, "acme", "admin@acme.co")

	resp, body := call(t, app, http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		Company:       dto.CreateCompanyRequest{Name: "Otra Acme", Slug: "acme"},
		AdminName:     "Otro",
		AdminEmail:    "otro@acme.co",
		AdminPassword: "secreto-123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "slug"), "el error debe señalar el slug")
}
