// Package report arma los documentos de cierre de ruta (CSV, XLSX y PDF) a partir del snapshot persistido.
package report

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/application/routing"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/closing"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

// Formatos soportados.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ClosingDocument datos que necesita un renderer. Solo formato: ningún cálculo ocurre en el renderer.
type ClosingDocument struct {
	CompanyName string
	CompanyNIT  string
	Route       *entity.Route
	Summary     closing.Summary
	Services    []*entity.Service
	Movements   []*entity.CashMovement
	PrintedAt   time.Time

	// GeneratedByName nombre de quien generó el cierre; vacío si el usuario ya no existe.
	GeneratedByName string
}

// GeneratedByLabel nombre del autor del cierre, o su ID si no se pudo resolver.
func (d *ClosingDocument) GeneratedByLabel() string {
	if d.GeneratedByName != "" {
		return d.GeneratedByName
	}
	return d.Summary.GeneratedBy
}

// Renderer convierte un ClosingDocument en bytes de un formato.
type Renderer interface {
	Render(ctx context.Context, doc *ClosingDocument) ([]byte, error)
	ContentType() string
}

// Snapshotter fuente del snapshot de cierre.
type Snapshotter interface {
	Snapshot(ctx context.Context, companyID, routeID, actorID string) (*routing.Snapshot, error)
}

// File documento listo para descargar.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UseCase exporta el cierre de una ruta.
type UseCase struct {
	snapshots Snapshotter
	routes    repository.RouteRepository
	companies repository.CompanyRepository
	users     repository.UserRepository
	renderers map[string]Renderer
	now       func() time.Time
}

// NewUseCase registra los renderers por formato (FormatCSV, FormatXLSX, FormatPDF).
func NewUseCase(
	s Snapshotter,
	routes repository.RouteRepository,
	companies repository.CompanyRepository,
	users repository.UserRepository,
	renderers map[string]Renderer,
) *UseCase {
	return &UseCase{snapshots: s, routes: routes, companies: companies, users: users, renderers: renderers, now: time.Now}
}

// Export usa el cierre existente de una ruta cerrada o cierra bajo demanda, y lo renderiza.
func (uc *UseCase) Export(ctx context.Context, actor dto.Actor, routeID, format string) (*File, error) {
	r, ok := uc.renderers[format]
	if !ok {
		return nil, domain.NewValidationError("format", "formato no soportado")
	}
	route, err := uc.routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if err := route.BelongsTo(actor.CompanyID); err != nil {
		return nil, err
	}
	if actor.IsDriver() && route.DriverID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	snap, err := uc.snapshots.Snapshot(ctx, actor.CompanyID, routeID, actor.UserID)
	if err != nil {
		return nil, err
	}
	doc := &ClosingDocument{
		Route:     snap.Route,
		Summary:   closing.BuildSummary(snap.Route, snap.Closing, snap.Services),
		Services:  snap.Services,
		Movements: snap.Movements,
		PrintedAt: uc.now(),
	}
	if company, err := uc.companies.GetByID(ctx, actor.CompanyID); err == nil {
		doc.CompanyName, doc.CompanyNIT = company.Name, company.NIT
	}
	if u, err := uc.users.GetByID(ctx, doc.Summary.GeneratedBy); err == nil {
		doc.GeneratedByName = u.Name
	}

	data, err := r.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return &File{Name: FileName(snap.Route, format), ContentType: r.ContentType(), Data: data}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// FileName "cierre_<ruta>_<fecha>.<ext>".
func FileName(route *entity.Route, ext string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(route.Label()), "-"), "-")
	if slug == "" {
		slug = "ruta"
	}
	return fmt.Sprintf("cierre_%s_%s.%s", slug, route.DepartureDate.Format("2006-01-02"), ext)
}
