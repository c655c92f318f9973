package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
	"github.com/jhoicas/Acarreo-api/pkg/nit"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create crea una empresa activa. Un slug repetido devuelve domain.ErrDuplicate sobre el campo slug.
// El NIT es opcional; si viene se guarda normalizado con su dígito de verificación.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	var taxID string
	if strings.TrimSpace(in.NIT) != "" {
		n, err := nit.Normalize(in.NIT)
		if err != nil {
			return nil, domain.NewValidationError("nit", err.Error())
		}
		taxID = n
	}
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if _, err := uc.repo.GetBySlug(ctx, slug); err == nil {
		return nil, domain.FieldError("slug", domain.ErrDuplicate)
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Slug:      slug,
		NIT:       taxID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		NIT:       c.NIT,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}
