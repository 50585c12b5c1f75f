package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	seq     int
	findErr error // if set, every lookup returns this error

	touched  map[string]time.Time
	touchErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User), touched: make(map[string]time.Time)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == domain.NormalizeEmail(email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicate
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.seq)
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Active = active
	return cloneUser(u), nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return r.touchErr
	}
	r.touched[id] = at
	return nil
}

// seed stores a user with a real bcrypt hash of password.
func (r *stubUserRepo) seed(email, password string, role domain.Role, active bool) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u, err := r.Create(context.Background(), &domain.User{
		Name:         "seeded",
		Email:        domain.NormalizeEmail(email),
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	})
	if err != nil {
		panic(err)
	}
	return u
}

// ---------------------------------------------------------------------------
// Hasher / publisher spies
// ---------------------------------------------------------------------------

// spyHasher wraps a real bcrypt hasher and counts Verify calls.
type spyHasher struct {
	inner       *BcryptHasher
	mu          sync.Mutex
	verifyCalls int
	lastHash    string
}

func newSpyHasher() *spyHasher {
	return &spyHasher{inner: NewBcryptHasher(bcrypt.MinCost, 0)}
}

func (h *spyHasher) Hash(ctx context.Context, plain string) (string, error) {
	return h.inner.Hash(ctx, plain)
}

func (h *spyHasher) Verify(ctx context.Context, plain, hash string) bool {
	h.mu.Lock()
	h.verifyCalls++
	h.lastHash = hash
	h.mu.Unlock()
	return h.inner.Verify(ctx, plain, hash)
}

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.LoginEvent
}

func (p *stubPublisher) Publish(ev domain.LoginEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

// ---------------------------------------------------------------------------
// In-memory stub personnel repositories
// ---------------------------------------------------------------------------

type stubEmployeeRepo struct {
	byID       map[string]*domain.Employee
	seq        int
	lastFilter ports.EmployeeFilter
	lastPatch  ports.EmployeePatch
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{byID: make(map[string]*domain.Employee)}
}

func (r *stubEmployeeRepo) List(_ context.Context, f ports.EmployeeFilter) ([]*domain.Employee, error) {
	r.lastFilter = f
	out := make([]*domain.Employee, 0, len(r.byID))
	for _, e := range r.byID {
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubEmployeeRepo) Summaries(_ context.Context, f ports.EmployeeFilter) ([]domain.EmployeeSummary, error) {
	r.lastFilter = f
	out := make([]domain.EmployeeSummary, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, domain.EmployeeSummary{ID: e.ID, Nombre: e.Nombre, Apellido: e.Apellido, CI: e.CI})
	}
	return out, nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	for _, existing := range r.byID {
		if existing.CI == e.CI {
			return nil, domain.ErrDuplicate
		}
	}
	r.seq++
	clone := *e
	clone.ID = fmt.Sprintf("emp-%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, id string, patch ports.EmployeePatch) (*domain.Employee, error) {
	r.lastPatch = patch
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Nombre != nil {
		e.Nombre = *patch.Nombre
	}
	if patch.Estado != nil {
		e.Estado = *patch.Estado
	}
	clone := *e
	return &clone, nil
}

func (r *stubEmployeeRepo) Delete(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.byID, id)
	return e, nil
}

type stubSanctionRepo struct {
	created      []*domain.Sanction
	lastEmployee string
}

func (r *stubSanctionRepo) List(_ context.Context, employeeID string) ([]*domain.Sanction, error) {
	r.lastEmployee = employeeID
	return r.created, nil
}

func (r *stubSanctionRepo) Create(_ context.Context, s *domain.Sanction) (*domain.Sanction, error) {
	clone := *s
	clone.ID = fmt.Sprintf("san-%d", len(r.created)+1)
	r.created = append(r.created, &clone)
	out := clone
	return &out, nil
}
