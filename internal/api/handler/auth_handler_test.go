package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sigcpef/personnel-api/internal/api/middleware"
	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn     func(ctx context.Context, email, password, clientIP string) (string, *domain.User, error)
	registerFn  func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	meFn        func(ctx context.Context, userID string) (*domain.User, error)
	setActiveFn func(ctx context.Context, userID string, active bool) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, clientIP string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password, clientIP)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func (s *stubAuthService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	return s.setActiveFn(ctx, userID, active)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, clientIP string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			if clientIP != "203.0.113.5" {
				t.Fatalf("unexpected client ip: %s", clientIP)
			}
			return "token123", &domain.User{ID: "u1", Name: "Alice", Email: email, Role: domain.RoleAdmin, PasswordHash: "$2a$..."}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret"}`)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.5")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["success"] != true || resp["token"] != "token123" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u1" || user["role"] != "ADMIN" || user["name"] != "Alice" || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("password hash leaked in response")
	}
}

func TestAuthHandler_Login_PropagatesServiceError(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, clientIP string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"bad"}`), httptest.NewRecorder())

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, clientIP string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", "{"), httptest.NewRecorder())

	if err := handler.Login(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Name != "Bob" || in.Email != "bob@example.com" || in.Role != "ICAP" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u2", Email: in.Email, Role: domain.RoleICAP}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Bob","email":"bob@example.com","password":"pass1234","role":"ICAP"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	data, ok := resp["data"].(map[string]any)
	if resp["success"] != true || !ok || data["id"] != "u2" || data["email"] != "bob@example.com" || data["role"] != "ICAP" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Bob","email":"not-an-email","password":"x"}`), httptest.NewRecorder())

	err := handler.Register(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || !strings.Contains(ve.Msg, "email") {
		t.Fatalf("expected email validation error, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrDuplicate
		},
	}
	handler := NewAuthHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Bob","email":"bob@example.com","password":"x"}`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		meFn: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != "u3" {
				t.Fatalf("unexpected user id %q", userID)
			}
			return &domain.User{ID: "u3", Name: "Carla", Email: "carla@example.com", Role: domain.RoleOperaciones}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), rec)
	c.Set(middleware.PrincipalKey, domain.Principal{UserID: "u3", Role: domain.RoleOperaciones})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	user, ok := resp["user"].(map[string]any)
	if resp["success"] != true || !ok || user["role"] != "OPERACIONES" || user["name"] != "Carla" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Me_WithoutPrincipal(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), httptest.NewRecorder())

	if err := handler.Me(c); !errors.Is(err, domain.ErrAuthMissing) {
		t.Fatalf("expected ErrAuthMissing, got %v", err)
	}
}

func TestAuthHandler_SetActive(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		setActiveFn: func(ctx context.Context, userID string, active bool) (*domain.User, error) {
			if userID != "u4" || active {
				t.Fatalf("unexpected args: %s %v", userID, active)
			}
			return &domain.User{ID: "u4", Email: "d@example.com", Role: domain.RoleRRHH, Active: false}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/api/auth/users/u4/active", `{"active":false}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("u4")

	if err := handler.SetActive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data, _ := decodeBody(t, rec)["data"].(map[string]any)
	if data["active"] != false || data["id"] != "u4" {
		t.Fatalf("unexpected payload: %+v", data)
	}
}

func TestAuthHandler_SetActive_MissingFlag(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c := e.NewContext(jsonRequest(http.MethodPatch, "/api/auth/users/u4/active", `{}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("u4")

	if err := handler.SetActive(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
