package ports

import (
	"context"

	"github.com/sigcpef/personnel-api/internal/core/domain"
)

// EmployeeFilter narrows employee listings. Query is matched literally and
// case-insensitively against nombre, apellido and ci (and unidad when
// IncludeUnit is set).
type EmployeeFilter struct {
	Query       string
	IncludeUnit bool
	Limit       int64 // 0 = unlimited
}

// EmployeeRepository persists staff records.
type EmployeeRepository interface {
	List(ctx context.Context, filter EmployeeFilter) ([]*domain.Employee, error)
	Summaries(ctx context.Context, filter EmployeeFilter) ([]domain.EmployeeSummary, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	// Update applies the non-nil fields of patch and returns the result.
	Update(ctx context.Context, id string, patch EmployeePatch) (*domain.Employee, error)
	Delete(ctx context.Context, id string) (*domain.Employee, error)
}

// EmployeePatch lists the mutable employee fields; nil means unchanged.
type EmployeePatch struct {
	Nombre             *string
	Apellido           *string
	CI                 *string
	Rango              *string
	Cargo              *string
	Unidad             *string
	Telefono           *string
	EmailInstitucional *string
	Direccion          *string
	FotoURL            *string
	Estado             *domain.EmployeeStatus
}

// SanctionRepository persists disciplinary records.
type SanctionRepository interface {
	// List returns sanctions newest first, filtered by employee when
	// employeeID is non-empty, with the employee summary populated.
	List(ctx context.Context, employeeID string) ([]*domain.Sanction, error)
	Create(ctx context.Context, s *domain.Sanction) (*domain.Sanction, error)
}

type PersonnelService interface {
	ListEmployees(ctx context.Context, query string) ([]*domain.Employee, error)
	SearchEmployees(ctx context.Context, query string) ([]domain.EmployeeSummary, error)
	CreateEmployee(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id string, patch EmployeePatch) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) (*domain.Employee, error)
}

// SanctionInput is the payload for registering a sanction.
type SanctionInput struct {
	EmployeeID  string
	Tipo        string
	Descripcion string
	Sancionante string
}

type SanctionService interface {
	List(ctx context.Context, employeeID string) ([]*domain.Sanction, error)
	Create(ctx context.Context, in SanctionInput) (*domain.Sanction, error)
	Types() []string
}
