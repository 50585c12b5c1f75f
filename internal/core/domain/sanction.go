package domain

import "time"

type SanctionStatus string

const (
	SanctionOpen   SanctionStatus = "ABIERTA"
	SanctionClosed SanctionStatus = "CERRADA"
)

// SanctionTypes is the fixed catalogue offered to ICAP.
var SanctionTypes = []string{
	"Amonestacion verbal",
	"Amonestacion escrita",
	"Suspension",
	"Destitucion",
	"Investigacion interna",
}

// Sanction is a disciplinary record against an employee.
type Sanction struct {
	ID          string           `json:"id"`
	EmployeeID  string           `json:"funcionarioId"`
	Employee    *EmployeeSummary `json:"funcionario,omitempty"`
	Tipo        string           `json:"tipo"`
	Descripcion string           `json:"descripcion"`
	Fecha       time.Time        `json:"fecha"`
	Sancionante string           `json:"sancionante,omitempty"`
	Estado      SanctionStatus   `json:"estado"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
