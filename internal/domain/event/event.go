// Package event define los eventos de dominio que devuelven las operaciones de escritura.
// Quien invoca la operación decide si los reenvía al despachador de notificaciones.
package event

import "time"

// Event evento de dominio.
type Event interface {
	Name() string
}

const (
	NameRouteCreated   = "route.created"
	NameServiceCreated = "service.created"
)

// RouteCreated se emite al crear una ruta.
type RouteCreated struct {
	CompanyID     string
	RouteID       string
	RouteLabel    string
	DepartureDate time.Time
	DriverID      string
	ActorID       string
	At            time.Time
}

func (RouteCreated) Name() string { return NameRouteCreated }

// ServiceCreated se emite al crear un servicio.
type ServiceCreated struct {
	CompanyID   string
	ServiceID   string
	RouteID     string
	DriverID    string
	ClientName  string
	Origin      string
	Destination string
	ActorID     string
	At          time.Time
}

func (ServiceCreated) Name() string { return NameServiceCreated }
