package auth

import (
	"errors"
	"testing"

	"github.com/worktrack/worktrack-api/internal/core/domain"
)

func TestContext_Anonymous(t *testing.T) {
	actx := Anonymous()

	if !actx.IsAnonymous() {
		t.Fatalf("expected anonymous context")
	}
	if _, err := actx.CurrentUserID(); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
	if _, err := actx.CurrentUsername(); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
	if actx.HasRole(domain.RoleAdmin) {
		t.Fatalf("anonymous context must not carry roles")
	}
}

func TestContext_NilReceiver(t *testing.T) {
	var actx *Context

	if !actx.IsAnonymous() {
		t.Fatalf("nil context should be anonymous")
	}
	if _, err := actx.CurrentUserID(); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestContext_ForUser(t *testing.T) {
	actx := ForUser(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin})

	if actx.IsAnonymous() {
		t.Fatalf("expected authenticated context")
	}

	id, err := actx.CurrentUserID()
	if err != nil || id != "u1" {
		t.Fatalf("CurrentUserID = %q, %v", id, err)
	}

	name, err := actx.CurrentUsername()
	if err != nil || name != "alice" {
		t.Fatalf("CurrentUsername = %q, %v", name, err)
	}

	if !actx.HasRole(domain.RoleAdmin) {
		t.Fatalf("expected admin role")
	}
	if actx.HasRole(domain.RoleEmployee) {
		t.Fatalf("unexpected employee role")
	}
}
