// Package memory implementa los puertos de persistencia en memoria. Lo usan los tests de
// casos de uso y handlers; Run emula commit/rollback restaurando una copia del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	txMu sync.Mutex // serializa transacciones (equivalente al lock de fila de la ruta)
	mu   sync.Mutex

	companies map[string]entity.Company
	users     map[string]entity.User
	clients   map[string]entity.Client
	vehicles  map[string]entity.Vehicle
	routes    map[string]entity.Route
	services  map[string]entity.Service
	movements []entity.CashMovement
	closings  map[string]entity.RouteClosing // por route_id
	comments  []entity.ServiceComment
	subs      map[string]entity.PushSubscription // por endpoint

	upsertErrs  []error
	upsertCalls int
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		companies: map[string]entity.Company{},
		users:     map[string]entity.User{},
		clients:   map[string]entity.Client{},
		vehicles:  map[string]entity.Vehicle{},
		routes:    map[string]entity.Route{},
		services:  map[string]entity.Service{},
		closings:  map[string]entity.RouteClosing{},
		subs:      map[string]entity.PushSubscription{},
	}
}

// FailUpserts hace que las próximas llamadas a RouteClosingRepository.Upsert devuelvan estos errores, en orden.
func (s *Store) FailUpserts(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertErrs = append(s.upsertErrs, errs...)
}

// UpsertCalls cantidad de llamadas a Upsert de cierres.
func (s *Store) UpsertCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertCalls
}

// ClosingCount filas de cierre para la ruta (0 o 1).
func (s *Store) ClosingCount(routeID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.closings[routeID]; ok {
		return 1
	}
	return 0
}

type snapshot struct {
	routes    map[string]entity.Route
	services  map[string]entity.Service
	movements []entity.CashMovement
	closings  map[string]entity.RouteClosing
	comments  []entity.ServiceComment
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		routes:    make(map[string]entity.Route, len(s.routes)),
		services:  make(map[string]entity.Service, len(s.services)),
		movements: append([]entity.CashMovement(nil), s.movements...),
		closings:  make(map[string]entity.RouteClosing, len(s.closings)),
		comments:  append([]entity.ServiceComment(nil), s.comments...),
	}
	for k, v := range s.routes {
		snap.routes[k] = v
	}
	for k, v := range s.services {
		snap.services[k] = v
	}
	for k, v := range s.closings {
		snap.closings[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = snap.routes
	s.services = snap.services
	s.movements = snap.movements
	s.closings = snap.closings
	s.comments = snap.comments
}

// TxRunner ejecuta fn con los repos del store; si fn falla, el estado transaccional vuelve al previo.
type TxRunner struct {
	s *Store
}

var _ repository.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner en memoria.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	snap := r.s.snapshot()
	err := fn(repository.TxRepos{
		Routes:    NewRouteRepository(r.s),
		Services:  NewServiceRepository(r.s),
		Movements: NewCashMovementRepository(r.s),
		Closings:  NewRouteClosingRepository(r.s),
		Comments:  NewCommentRepository(r.s),
	})
	if err != nil {
		r.s.restore(snap)
	}
	return err
}
