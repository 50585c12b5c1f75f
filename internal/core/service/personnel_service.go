package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
)

// consultaLimit caps operational lookups.
const consultaLimit = 30

type personnelService struct {
	repo ports.EmployeeRepository
	now  func() time.Time
}

// NewPersonnelService returns a PersonnelService backed by repo.
func NewPersonnelService(repo ports.EmployeeRepository) ports.PersonnelService {
	return &personnelService{repo: repo, now: time.Now}
}

func (s *personnelService) ListEmployees(ctx context.Context, query string) ([]*domain.Employee, error) {
	list, err := s.repo.List(ctx, ports.EmployeeFilter{Query: strings.TrimSpace(query)})
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return list, nil
}

// SearchEmployees is the Operations lookup: it also matches the unit and
// returns at most consultaLimit summaries.
func (s *personnelService) SearchEmployees(ctx context.Context, query string) ([]domain.EmployeeSummary, error) {
	list, err := s.repo.Summaries(ctx, ports.EmployeeFilter{
		Query:       strings.TrimSpace(query),
		IncludeUnit: true,
		Limit:       consultaLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	return list, nil
}

func (s *personnelService) CreateEmployee(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	e.Nombre = strings.TrimSpace(e.Nombre)
	e.Apellido = strings.TrimSpace(e.Apellido)
	e.CI = strings.TrimSpace(e.CI)
	if e.Nombre == "" || e.Apellido == "" || e.CI == "" {
		return nil, domain.NewValidationError("nombre, apellido y ci son obligatorios.")
	}
	if e.Estado == "" {
		e.Estado = domain.EmployeeActive
	}
	now := s.now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return created, nil
}

func (s *personnelService) UpdateEmployee(ctx context.Context, id string, patch ports.EmployeePatch) (*domain.Employee, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id requerido para actualizar.")
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return updated, nil
}

func (s *personnelService) DeleteEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id requerido para eliminar.")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete employee: %w", err)
	}
	return deleted, nil
}
