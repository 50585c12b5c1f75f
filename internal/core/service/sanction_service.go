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

type sanctionService struct {
	sanctions ports.SanctionRepository
	employees ports.EmployeeRepository
	now       func() time.Time
}

// NewSanctionService returns a SanctionService. Sanctions can only be filed
// against existing employees.
func NewSanctionService(sanctions ports.SanctionRepository, employees ports.EmployeeRepository) ports.SanctionService {
	return &sanctionService{sanctions: sanctions, employees: employees, now: time.Now}
}

func (s *sanctionService) List(ctx context.Context, employeeID string) ([]*domain.Sanction, error) {
	list, err := s.sanctions.List(ctx, strings.TrimSpace(employeeID))
	if err != nil {
		return nil, fmt.Errorf("list sanctions: %w", err)
	}
	return list, nil
}

func (s *sanctionService) Create(ctx context.Context, in ports.SanctionInput) (*domain.Sanction, error) {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.Tipo = strings.TrimSpace(in.Tipo)
	in.Descripcion = strings.TrimSpace(in.Descripcion)
	if in.EmployeeID == "" || in.Tipo == "" || in.Descripcion == "" {
		return nil, domain.NewValidationError("funcionario, tipo y descripcion son obligatorios.")
	}

	if _, err := s.employees.FindByID(ctx, in.EmployeeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("create sanction: %w", err)
	}

	now := s.now().UTC()
	created, err := s.sanctions.Create(ctx, &domain.Sanction{
		EmployeeID:  in.EmployeeID,
		Tipo:        in.Tipo,
		Descripcion: in.Descripcion,
		Sancionante: strings.TrimSpace(in.Sancionante),
		Fecha:       now,
		Estado:      domain.SanctionOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create sanction: %w", err)
	}
	return created, nil
}

// Types returns a copy of the sanction catalogue.
func (s *sanctionService) Types() []string {
	out := make([]string, len(domain.SanctionTypes))
	copy(out, domain.SanctionTypes)
	return out
}
