package domain

import "time"

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVO"
	EmployeeInactive EmployeeStatus = "INACTIVO"
)

// Employee is a staff record ("funcionario") managed by RR-HH. CI is the
// national identity number and is unique.
type Employee struct {
	ID                 string         `json:"id"`
	Nombre             string         `json:"nombre"`
	Apellido           string         `json:"apellido"`
	CI                 string         `json:"ci"`
	FechaNacimiento    *time.Time     `json:"fechaNacimiento,omitempty"`
	Rango              string         `json:"rango,omitempty"`
	Cargo              string         `json:"cargo,omitempty"`
	Unidad             string         `json:"unidad,omitempty"`
	Telefono           string         `json:"telefono,omitempty"`
	EmailInstitucional string         `json:"emailInstitucional,omitempty"`
	Direccion          string         `json:"direccion,omitempty"`
	FotoURL            string         `json:"fotoUrl,omitempty"`
	Estado             EmployeeStatus `json:"estado"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// EmployeeSummary is the projection used by operational lookups and embedded
// in sanction listings.
type EmployeeSummary struct {
	ID       string         `json:"id"`
	Nombre   string         `json:"nombre"`
	Apellido string         `json:"apellido"`
	CI       string         `json:"ci"`
	Rango    string         `json:"rango,omitempty"`
	Cargo    string         `json:"cargo,omitempty"`
	Unidad   string         `json:"unidad,omitempty"`
	Estado   EmployeeStatus `json:"estado,omitempty"`
}
