package handler

import (
	"time"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
)

// errorResponse documents the error envelope rendered by the HTTP error
// handler on all 4xx/5xx responses.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Code    string `json:"code"    example:"AUTH_INVALID"`
	Message string `json:"message" example:"Token invalido o ausente."`
}

// dataResponse is the success envelope of the personnel routes.
type dataResponse struct {
	Success bool `json:"success" example:"true"`
	Data    any  `json:"data"`
}

func envelope(data any) dataResponse {
	return dataResponse{Success: true, Data: data}
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    example:"admin@sigcpef.bo"`
	Password string `json:"password" example:"s3cret-pass"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"omitempty,max=72"`
	Role     string `json:"role"     example:"RRHH"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type userView struct {
	ID    string      `json:"id"`
	Role  domain.Role `json:"role"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
}

type loginResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    userView `json:"user"`
}

type meResponse struct {
	Success bool     `json:"success"`
	User    userView `json:"user"`
}

type registeredUser struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type accountStatus struct {
	ID     string      `json:"id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Active bool        `json:"active"`
}

func toUserView(u *domain.User) userView {
	return userView{ID: u.ID, Role: u.Role, Email: u.Email, Name: u.Name}
}

// --- Personnel ---

type createEmployeeRequest struct {
	Nombre             string     `json:"nombre"`
	Apellido           string     `json:"apellido"`
	CI                 string     `json:"ci"`
	FechaNacimiento    *time.Time `json:"fechaNacimiento"`
	Rango              string     `json:"rango"`
	Cargo              string     `json:"cargo"`
	Unidad             string     `json:"unidad"`
	Telefono           string     `json:"telefono"`
	EmailInstitucional string     `json:"emailInstitucional" validate:"omitempty,email"`
	Direccion          string     `json:"direccion"`
	FotoURL            string     `json:"fotoUrl"            validate:"omitempty,url"`
	Estado             string     `json:"estado"             validate:"omitempty,oneof=ACTIVO INACTIVO"`
}

func (r createEmployeeRequest) toDomain() *domain.Employee {
	return &domain.Employee{
		Nombre:             r.Nombre,
		Apellido:           r.Apellido,
		CI:                 r.CI,
		FechaNacimiento:    r.FechaNacimiento,
		Rango:              r.Rango,
		Cargo:              r.Cargo,
		Unidad:             r.Unidad,
		Telefono:           r.Telefono,
		EmailInstitucional: r.EmailInstitucional,
		Direccion:          r.Direccion,
		FotoURL:            r.FotoURL,
		Estado:             domain.EmployeeStatus(r.Estado),
	}
}

// updateEmployeeRequest carries the id in the body; absent fields are left
// unchanged.
type updateEmployeeRequest struct {
	ID                 string  `json:"id"`
	Nombre             *string `json:"nombre"`
	Apellido           *string `json:"apellido"`
	CI                 *string `json:"ci"`
	Rango              *string `json:"rango"`
	Cargo              *string `json:"cargo"`
	Unidad             *string `json:"unidad"`
	Telefono           *string `json:"telefono"`
	EmailInstitucional *string `json:"emailInstitucional" validate:"omitempty,email"`
	Direccion          *string `json:"direccion"`
	FotoURL            *string `json:"fotoUrl"            validate:"omitempty,url"`
	Estado             *string `json:"estado"             validate:"omitempty,oneof=ACTIVO INACTIVO"`
}

func (r updateEmployeeRequest) toPatch() ports.EmployeePatch {
	p := ports.EmployeePatch{
		Nombre:             r.Nombre,
		Apellido:           r.Apellido,
		CI:                 r.CI,
		Rango:              r.Rango,
		Cargo:              r.Cargo,
		Unidad:             r.Unidad,
		Telefono:           r.Telefono,
		EmailInstitucional: r.EmailInstitucional,
		Direccion:          r.Direccion,
		FotoURL:            r.FotoURL,
	}
	if r.Estado != nil {
		st := domain.EmployeeStatus(*r.Estado)
		p.Estado = &st
	}
	return p
}

type deleteEmployeeRequest struct {
	ID string `json:"id"`
}

// --- Sanctions ---

type createSanctionRequest struct {
	Funcionario string `json:"funcionario"`
	Tipo        string `json:"tipo"`
	Descripcion string `json:"descripcion"`
	Sancionante string `json:"sancionante"`
}
