package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/event"
	"github.com/jhoicas/Acarreo-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	userID string
	msg    Message
}

// fakeSender registra los envíos; gone marca endpoints que responden 410.
type fakeSender struct {
	mu   sync.Mutex
	out  []sent
	gone map[string]bool
	fail map[string]bool
}

func (f *fakeSender) Send(_ context.Context, sub *entity.PushSubscription, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone[sub.Endpoint] {
		return ErrSubscriptionGone
	}
	if f.fail[sub.Endpoint] {
		return errors.New("timeout")
	}
	f.out = append(f.out, sent{userID: sub.UserID, msg: msg})
	return nil
}

func (f *fakeSender) byUser() map[string]Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := map[string]Message{}
	for _, s := range f.out {
		m[s.userID] = s.msg
	}
	return m
}

type fixture struct {
	store   *memory.Store
	svc     *Service
	sender  *fakeSender
	company string
	manager dto.Actor
	admin   dto.Actor
	driver  dto.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, company: uuid.NewString(), sender: &fakeSender{gone: map[string]bool{}, fail: map[string]bool{}}}
	users := memory.NewUserRepository(store)
	mk := func(role string) dto.Actor {
		u := &entity.User{ID: uuid.NewString(), CompanyID: f.company, Email: uuid.NewString() + "@acarreo.co", Name: role, Role: role, Status: entity.UserActive}
		require.NoError(t, users.Create(context.Background(), u))
		return dto.Actor{UserID: u.ID, CompanyID: f.company, Role: role}
	}
	f.manager = mk(entity.RoleGerente)
	f.admin = mk(entity.RoleAdmin)
	f.driver = mk(entity.RoleConductor)
	f.svc = NewService(memory.NewPushSubscriptionRepository(store), users, f.sender, "BPUB", zerolog.Nop())
	return f
}

func (f *fixture) subscribe(t *testing.T, a dto.Actor, endpoint string) {
	t.Helper()
	var req dto.PushSubscribeRequest
	req.Endpoint = endpoint
	req.Keys.P256dh = "p256"
	req.Keys.Auth = "auth"
	require.NoError(t, f.svc.Subscribe(context.Background(), a, req, "Firefox"))
}

// ─── Suscripciones ────────────────────────────────────────────────────────────

func TestSubscribe_ReasignaPorEndpoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.subscribe(t, f.manager, "https://push.example/a")
	f.subscribe(t, f.driver, "https://push.example/a")

	st, err := f.svc.Status(ctx, f.manager)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Subscriptions, "el endpoint pasó al otro usuario")

	st, err = f.svc.Status(ctx, f.driver)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Subscriptions)
	assert.True(t, st.Enabled)
	assert.Equal(t, "BPUB", st.PublicKey)
}

func TestSubscribe_Invalida(t *testing.T) {
	f := newFixture(t)
	var req dto.PushSubscribeRequest
	req.Endpoint = "https://push.example/a"

	assert.Error(t, f.svc.Subscribe(context.Background(), f.manager, req, ""))
}

func TestUnsubscribeAll(t *testing.T) {
	f := newFixture(t)
	f.subscribe(t, f.manager, "https://push.example/a")
	f.subscribe(t, f.manager, "https://push.example/b")

	n, err := f.svc.UnsubscribeAll(context.Background(), f.manager)

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSendTest(t *testing.T) {
	f := newFixture(t)
	f.subscribe(t, f.manager, "https://push.example/a")
	f.subscribe(t, f.manager, "https://push.example/b")
	f.sender.fail["https://push.example/b"] = true

	res, err := f.svc.SendTest(context.Background(), f.manager)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, UrgencyHigh, f.sender.byUser()[f.manager.UserID].Urgency)
}

func TestSendTest_Deshabilitado(t *testing.T) {
	f := newFixture(t)
	f.svc.sender = nil

	_, err := f.svc.SendTest(context.Background(), f.manager)

	assert.Error(t, err)
}

// ─── Reparto de eventos ───────────────────────────────────────────────────────

func TestHandle_RutaCreada(t *testing.T) {
	f := newFixture(t)
	f.subscribe(t, f.manager, "https://push.example/gerente")
	f.subscribe(t, f.admin, "https://push.example/admin")
	f.subscribe(t, f.driver, "https://push.example/conductor")

	err := f.svc.Handle(context.Background(), event.RouteCreated{
		CompanyID: f.company, RouteID: "r-1", RouteLabel: "Ruta Norte",
		DepartureDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		DriverID:      f.driver.UserID, ActorID: f.manager.UserID,
	})

	require.NoError(t, err)
	got := f.sender.byUser()
	require.Len(t, got, 2, "el gerente que creó la ruta no se notifica")
	assert.Equal(t, "/rutas/mias/", got[f.driver.UserID].Data["url"])
	assert.Equal(t, UrgencyHigh, got[f.driver.UserID].Urgency)
	assert.Equal(t, "Ruta Norte creada para 2026-03-10.", got[f.driver.UserID].Body)
	assert.Equal(t, "/rutas/r-1/detalle/", got[f.admin.UserID].Data["url"])
	assert.Equal(t, UrgencyNormal, got[f.admin.UserID].Urgency)
}

func TestHandle_ServicioCreadoPuntero(t *testing.T) {
	f := newFixture(t)
	f.subscribe(t, f.manager, "https://push.example/gerente")
	f.subscribe(t, f.driver, "https://push.example/conductor")

	err := f.svc.Handle(context.Background(), &event.ServiceCreated{
		CompanyID: f.company, ServiceID: "s-9", RouteID: "r-1",
		ClientName: "Depósito La 80", Origin: "Bodega", Destination: "Obra", ActorID: f.admin.UserID,
	})

	require.NoError(t, err)
	got := f.sender.byUser()
	assert.Equal(t, "/servicios/s-9/", got[f.manager.UserID].Data["url"])
	assert.Equal(t, "Depósito La 80: Bodega → Obra", got[f.manager.UserID].Body)
	assert.Equal(t, "/rutas/mias/", got[f.driver.UserID].Data["url"])
}

func TestHandle_BorraSuscripcionExpirada(t *testing.T) {
	f := newFixture(t)
	f.subscribe(t, f.driver, "https://push.example/vieja")
	f.sender.gone["https://push.example/vieja"] = true

	err := f.svc.Handle(context.Background(), event.RouteCreated{CompanyID: f.company, RouteID: "r-1", ActorID: f.manager.UserID})

	require.NoError(t, err)
	st, err := f.svc.Status(context.Background(), f.driver)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Subscriptions, "404/410 elimina la suscripción")
}

func TestHandle_OtraEmpresaNoRecibe(t *testing.T) {
	f := newFixture(t)
	f.subscribe(t, f.driver, "https://push.example/conductor")

	err := f.svc.Handle(context.Background(), event.RouteCreated{CompanyID: uuid.NewString(), RouteID: "r-1"})

	require.NoError(t, err)
	assert.Empty(t, f.sender.byUser())
}

// ─── Sobre y despacho ─────────────────────────────────────────────────────────

func TestEnvelope_IdaYVuelta(t *testing.T) {
	in := &event.ServiceCreated{CompanyID: "c-1", ServiceID: "s-1", ClientName: "Ferretería"}

	data, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, *in, out)

	_, err = Decode([]byte(`{"name":"otro","payload":{}}`))
	assert.Error(t, err)
}

type recordingHandler struct {
	done chan event.Event
}

func (h *recordingHandler) Handle(_ context.Context, ev event.Event) error {
	h.done <- ev
	return errors.New("falla ignorada")
}

func TestAsyncDispatcher_NoBloqueaNiPropagaErrores(t *testing.T) {
	h := &recordingHandler{done: make(chan event.Event, 1)}
	d := NewAsyncDispatcher(h, time.Second, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	d.Dispatch(ctx, event.RouteCreated{RouteID: "r-1"})
	cancel()

	select {
	case ev := <-h.done:
		assert.Equal(t, event.NameRouteCreated, ev.Name())
	case <-time.After(2 * time.Second):
		t.Fatal("el evento no se procesó")
	}
}
