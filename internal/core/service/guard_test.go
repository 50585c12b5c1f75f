package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sigcpef/personnel-api/internal/core/domain"
)

func newTestGuard(t *testing.T) (*Guard, *TokenService) {
	t.Helper()
	tokens := newTestTokenService(t, time.Now())
	return NewGuard(tokens, discardLogger), tokens
}

func bearerFor(t *testing.T, tokens *TokenService, role domain.Role) string {
	t.Helper()
	token, err := tokens.Issue(&domain.User{ID: "665f1c2ab3e4d5f6a7b8c9d0", Email: "x@sigcpef.bo", Role: role})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return "Bearer " + token
}

func TestGuard_MissingCredentials(t *testing.T) {
	g, _ := newTestGuard(t)

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer ", "Basic dXNlcjpwYXNz"} {
		if _, err := g.Authorize(header); !errors.Is(err, domain.ErrAuthMissing) {
			t.Errorf("Authorize(%q): expected ErrAuthMissing, got %v", header, err)
		}
	}
}

func TestGuard_InvalidToken(t *testing.T) {
	g, _ := newTestGuard(t)

	if _, err := g.Authorize("Bearer garbage"); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid, got %v", err)
	}
}

func TestGuard_SchemeIsCaseInsensitive(t *testing.T) {
	g, tokens := newTestGuard(t)
	header := bearerFor(t, tokens, domain.RoleRRHH)

	if _, err := g.Authorize("bearer " + header[len("Bearer "):]); err != nil {
		t.Fatalf("lower-case scheme rejected: %v", err)
	}
}

func TestGuard_RolePolicy(t *testing.T) {
	g, tokens := newTestGuard(t)

	cases := []struct {
		role    domain.Role
		allowed []domain.Role
		wantErr error
	}{
		{domain.RoleRRHH, []domain.Role{domain.RoleRRHH}, nil},
		{domain.RoleRRHH, []domain.Role{domain.RoleAdmin}, domain.ErrAuthForbidden},
		{domain.RoleICAP, []domain.Role{domain.RoleRRHH, domain.RoleOperaciones}, domain.ErrAuthForbidden},
		{domain.RoleAdmin, []domain.Role{domain.RoleICAP}, nil},
		{domain.RoleAdmin, []domain.Role{domain.RoleRRHH}, nil},
		{domain.RoleOperaciones, nil, nil},
	}

	for _, tc := range cases {
		p, err := g.Authorize(bearerFor(t, tokens, tc.role), tc.allowed...)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("role %s allowed %v: expected %v, got %v", tc.role, tc.allowed, tc.wantErr, err)
			continue
		}
		if err == nil && p.Role != tc.role {
			t.Errorf("principal role = %s, want %s", p.Role, tc.role)
		}
	}
}
