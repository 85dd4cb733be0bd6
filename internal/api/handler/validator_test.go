package handler

import (
	"strings"
	"testing"
)

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	req := registerUserRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "short",
		Role:     "boss",
	}
	err := v.Validate(&req)
	if err == nil {
		t.Fatalf("expected validation error")
	}

	msg := err.Error()
	for _, want := range []string{
		"username must be at least 3 characters",
		"email must be a valid email address",
		"password must be at least 8 characters",
		"role must be one of: admin manager employee",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
	if strings.Contains(msg, "Username") {
		t.Errorf("message should use JSON names, got %q", msg)
	}
}

func TestValidator_OmitemptySkipsBlankFields(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&updateUserRequest{}); err != nil {
		t.Fatalf("blank update payload should validate, got %v", err)
	}
	if err := v.Validate(&updateUserRequest{Username: "ab"}); err == nil {
		t.Fatalf("expected validation error for short username")
	}
}

func TestValidator_ValidPayloadPasses(t *testing.T) {
	v := NewValidator()

	req := registerUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		FullName: "Alice A",
		Role:     "employee",
	}
	if err := v.Validate(&req); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}
