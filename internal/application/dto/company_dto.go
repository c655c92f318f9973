package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Slug string `json:"slug" validate:"required,min=2,max=60,lowercase"`
	NIT  string `json:"nit" validate:"omitempty,max=20"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	NIT       string    `json:"nit"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// SignupRequest alta de una empresa nueva con su primer administrador.
type SignupRequest struct {
	Company       CreateCompanyRequest `json:"company" validate:"required"`
	AdminName     string               `json:"admin_name" validate:"required,min=1,max=200"`
	AdminEmail    string               `json:"admin_email" validate:"required,email"`
	AdminPassword string               `json:"admin_password" validate:"required,min=8"`
}

// SignupResponse empresa creada y sesión del administrador.
type SignupResponse struct {
	Company CompanyResponse `json:"company"`
	Session LoginResponse   `json:"session"`
}
