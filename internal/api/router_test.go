package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
	"github.com/sigcpef/personnel-api/internal/core/service"
	"github.com/sigcpef/personnel-api/internal/infrastructure/ratelimit"
)

const routerSecret = "router-test-secret-0123456789abcdef"

type fakeAuth struct{}

func (fakeAuth) Login(context.Context, string, string, string) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

func (fakeAuth) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: "u2", Email: in.Email, Role: domain.RoleRRHH}, nil
}

func (fakeAuth) Me(_ context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id, Role: domain.RoleICAP}, nil
}

func (fakeAuth) SetActive(context.Context, string, bool) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

type fakePersonnel struct{}

func (fakePersonnel) ListEmployees(context.Context, string) ([]*domain.Employee, error) {
	return []*domain.Employee{}, nil
}

func (fakePersonnel) SearchEmployees(context.Context, string) ([]domain.EmployeeSummary, error) {
	return []domain.EmployeeSummary{}, nil
}

func (fakePersonnel) CreateEmployee(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	return e, nil
}

func (fakePersonnel) UpdateEmployee(context.Context, string, ports.EmployeePatch) (*domain.Employee, error) {
	return nil, domain.ErrNotFound
}

func (fakePersonnel) DeleteEmployee(context.Context, string) (*domain.Employee, error) {
	return nil, domain.ErrNotFound
}

type fakeSanctions struct{}

func (fakeSanctions) List(context.Context, string) ([]*domain.Sanction, error) {
	return []*domain.Sanction{}, nil
}

func (fakeSanctions) Create(context.Context, ports.SanctionInput) (*domain.Sanction, error) {
	return nil, domain.ErrNotFound
}

func (fakeSanctions) Types() []string { return domain.SanctionTypes }

type offlineMongo struct{}

func (offlineMongo) Database(context.Context) (*mongo.Database, error) {
	return nil, context.DeadlineExceeded
}

type routerFixture struct {
	srv    http.Handler
	tokens *service.TokenService
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	tokens, err := service.NewTokenService(routerSecret, time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	e := NewRouter(Dependencies{
		Log:          zerolog.Nop(),
		Guard:        service.NewGuard(tokens, zerolog.Nop()),
		Auth:         fakeAuth{},
		Personnel:    fakePersonnel{},
		Sanctions:    fakeSanctions{},
		LoginLimiter: ratelimit.NewFixedWindow(10, time.Minute),
		Mongo:        offlineMongo{},
		Registerer:   prometheus.NewRegistry(),
	})
	return routerFixture{srv: e, tokens: tokens}
}

func (f routerFixture) bearer(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := f.tokens.Issue(&domain.User{ID: "u1", Email: "u1@sigcpef.bo", Role: role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + token
}

func (f routerFixture) do(method, target, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func envelopeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body.Code
}

func TestRouter_RoleGroups(t *testing.T) {
	f := newRouterFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   domain.Role
		status int
		code   string
	}{
		{"rrhh without token", http.MethodGet, "/api/rrhh/funcionarios", "", http.StatusUnauthorized, CodeAuthMissing},
		{"rrhh as rrhh", http.MethodGet, "/api/rrhh/funcionarios", domain.RoleRRHH, http.StatusOK, ""},
		{"rrhh as icap", http.MethodGet, "/api/rrhh/funcionarios", domain.RoleICAP, http.StatusForbidden, CodeAuthForbidden},
		{"rrhh as admin", http.MethodGet, "/api/rrhh/funcionarios", domain.RoleAdmin, http.StatusOK, ""},
		{"operaciones as operaciones", http.MethodGet, "/api/operaciones/consultas?q=x", domain.RoleOperaciones, http.StatusOK, ""},
		{"operaciones as rrhh", http.MethodGet, "/api/operaciones/consultas", domain.RoleRRHH, http.StatusForbidden, CodeAuthForbidden},
		{"icap tipos as icap", http.MethodGet, "/api/icap/tipos", domain.RoleICAP, http.StatusOK, ""},
		{"icap as operaciones", http.MethodGet, "/api/icap/sanciones", domain.RoleOperaciones, http.StatusForbidden, CodeAuthForbidden},
		{"register as rrhh", http.MethodPost, "/api/auth/register", domain.RoleRRHH, http.StatusForbidden, CodeAuthForbidden},
		{"me as icap", http.MethodGet, "/api/auth/me", domain.RoleICAP, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := ""
			if tt.role != "" {
				auth = f.bearer(t, tt.role)
			}
			rec := f.do(tt.method, tt.path, auth, "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.code != "" {
				if got := envelopeCode(t, rec); got != tt.code {
					t.Fatalf("expected code %s, got %s", tt.code, got)
				}
			}
		})
	}
}

func TestRouter_InvalidToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/auth/me", "Bearer not.a.jwt", "")

	if rec.Code != http.StatusUnauthorized || envelopeCode(t, rec) != CodeAuthInvalid {
		t.Fatalf("expected 401 AUTH_INVALID, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginRateLimit(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"email":"x@sigcpef.bo","password":"wrong"}`

	for i := 0; i < 10; i++ {
		rec := f.do(http.MethodPost, "/api/auth/login", "", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	rec := f.do(http.MethodPost, "/api/auth/login", "", body)
	if rec.Code != http.StatusTooManyRequests || envelopeCode(t, rec) != CodeRateLimit {
		t.Fatalf("expected 429 RATE_LIMIT, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"email":"x@sigcpef.bo","password":"wrong"}`

	limited := 0
	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d, 198.51.100.1", i))
		rec := httptest.NewRecorder()
		f.srv.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited != 20 {
		t.Fatalf("expected 20 of 30 attempts limited from one socket, got %d", limited)
	}
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	f := newRouterFixture(t)

	if rec := f.do(http.MethodGet, "/api/nope", "", ""); rec.Code != http.StatusNotFound || envelopeCode(t, rec) != CodeNotFound {
		t.Fatalf("expected 404 NOT_FOUND, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/auth/login", "", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRouter_HealthProbes(t *testing.T) {
	f := newRouterFixture(t)

	if rec := f.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readiness: expected 503 with mongo offline, got %d", rec.Code)
	}
}
