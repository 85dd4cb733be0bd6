package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/domain"
	"github.com/worktrack/worktrack-api/internal/core/ports"
)

type stubAuthService struct {
	loginResult *ports.LoginResult
	loginErr    error
	info        *ports.UserInfo
	whoAmIErr   error

	gotUsername string
	gotPassword string
}

func (s *stubAuthService) Login(_ context.Context, username, password string) (*ports.LoginResult, error) {
	s.gotUsername = username
	s.gotPassword = password
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResult, nil
}

func (s *stubAuthService) WhoAmI(_ context.Context, _ *auth.Context) (*ports.UserInfo, error) {
	if s.whoAmIErr != nil {
		return nil, s.whoAmIErr
	}
	return s.info, nil
}

func newLoginContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &stubAuthService{loginResult: &ports.LoginResult{
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	h := NewAuthHandler(svc)

	c, rec := newLoginContext(`{"username":"alice","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if svc.gotUsername != "alice" || svc.gotPassword != "s3cret" {
		t.Fatalf("credentials not forwarded: %q/%q", svc.gotUsername, svc.gotPassword)
	}

	var resp struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Token != "signed-token" || resp.TokenType != "Bearer" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newLoginContext(`{"username":"alice"}`)
	err := h.Login(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %v", err)
	}
}

func TestAuthHandler_Login_ServiceErrorPropagates(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials})

	c, _ := newLoginContext(`{"username":"alice","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{info: &ports.UserInfo{
		ID:       "u1",
		Username: "alice",
		Role:     domain.RoleAdmin,
	}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Me(c); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	var info ports.UserInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if info.Username != "alice" || info.Role != domain.RoleAdmin {
		t.Fatalf("unexpected info: %+v", info)
	}
}
