package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
	"github.com/jhoicas/Acarreo-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// CompanyCreator alta de empresas (lo implementa usecase.CompanyUseCase).
type CompanyCreator interface {
	Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
}

// AuthUseCase casos de uso de autenticación: alta de empresa, registro y login.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	companies CompanyCreator
	jwtCfg    JWTConfig
	cost      int
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companies CompanyCreator, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companies: companies, jwtCfg: jwtCfg, cost: bcrypt.DefaultCost}
}

// Signup crea la empresa y su primer admin, y devuelve la sesión del admin.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.SignupResponse, error) {
	if _, err := uc.userRepo.GetByEmail(ctx, in.AdminEmail); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	company, err := uc.companies.Create(ctx, in.Company)
	if err != nil {
		return nil, err
	}
	user, err := uc.newUser(company.ID, dto.RegisterRequest{
		Email: in.AdminEmail, Password: in.AdminPassword, Name: in.AdminName, Role: entity.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	session, err := uc.session(user)
	if err != nil {
		return nil, err
	}
	return &dto.SignupResponse{
		Company: *company,
		Session: *session,
	}, nil
}

// RegisterUser crea un usuario en la empresa del actor. Solo gerentes; solo un admin crea admins.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, actor dto.Actor, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	if in.Role == entity.RoleAdmin && actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	user, err := uc.newUser(actor.CompanyID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.UserFromEntity(user)
	return &resp, nil
}

func (uc *AuthUseCase) newUser(companyID string, in dto.RegisterRequest) (*entity.User, error) {
	if !entity.ValidRole(in.Role) {
		return nil, domain.NewValidationError("role", "rol inválido")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.Email
	}
	return &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Name:         name,
		Role:         in.Role,
		Status:       entity.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserActive {
		return nil, domain.ErrForbidden
	}
	return uc.session(user)
}

func (uc *AuthUseCase) session(user *entity.User) (*dto.LoginResponse, error) {
	ttl := time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.UserFromEntity(user)}, nil
}

// Users lista los usuarios de la empresa; role vacío = todos. Solo gerentes.
func (uc *AuthUseCase) Users(ctx context.Context, actor dto.Actor, role string) ([]dto.UserResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.userRepo.ListByCompany(ctx, actor.CompanyID, role)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UserFromEntity(u))
	}
	return out, nil
}
