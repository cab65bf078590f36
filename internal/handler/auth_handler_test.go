package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	registerFn func(ctx context.Context, email, password string) (string, *model.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *model.User, error)
	meFn       func(ctx context.Context, userID string) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password string) (string, *model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, password)
	}
	return "", nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return "", nil, nil
}

func (m *mockAuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	if m.meFn != nil {
		return m.meFn(ctx, userID)
	}
	return nil, nil
}

// --- POST /api/v1/auth/register テスト ---

func TestAuthHandler_Register_Success(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, email, password string) (string, *model.User, error) {
			if email != "user@example.com" {
				t.Errorf("email = %q, want user@example.com", email)
			}
			return "token-1", &model.User{ID: "user-1", Email: email}, nil
		},
	}

	h := NewAuthHandler(svc)

	body := `{"email": "user@example.com", "password": "s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}

	var resp authResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "token-1" {
		t.Errorf("Token = %q, want token-1", resp.Token)
	}
	if resp.User.Email != "user@example.com" {
		t.Errorf("User.Email = %q, want user@example.com", resp.User.Email)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	body := `{"email": "user@example.com", "password": "short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeValidationFailed {
		t.Errorf("code = %q, want VALIDATION_FAILED", got)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, email, password string) (string, *model.User, error) {
			return "", nil, model.NewEmailTakenError()
		},
	}

	h := NewAuthHandler(svc)

	body := `{"email": "taken@example.com", "password": "s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeEmailTaken {
		t.Errorf("code = %q, want EMAIL_TAKEN", got)
	}
}

func TestAuthHandler_Register_Disabled(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, email, password string) (string, *model.User, error) {
			return "", nil, model.NewRegistrationDisabledError()
		},
	}

	h := NewAuthHandler(svc)

	body := `{"email": "user@example.com", "password": "s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

// --- POST /api/v1/auth/login テスト ---

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *model.User, error) {
			return "token-1", &model.User{ID: "user-1", Email: email}, nil
		},
	}

	h := NewAuthHandler(svc)

	body := `{"email": "user@example.com", "password": "s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *model.User, error) {
			return "", nil, model.NewInvalidCredentialsError()
		},
	}

	h := NewAuthHandler(svc)

	body := `{"email": "user@example.com", "password": "wrong-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want INVALID_CREDENTIALS", got)
	}
}

// --- GET /api/v1/auth/me テスト ---

func TestAuthHandler_Me_Success(t *testing.T) {
	svc := &mockAuthService{
		meFn: func(ctx context.Context, userID string) (*model.User, error) {
			if userID != "user-123" {
				t.Errorf("userID = %q, want user-123", userID)
			}
			return &model.User{ID: userID, Email: "user@example.com"}, nil
		},
	}

	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp userResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "user-123" {
		t.Errorf("ID = %q, want user-123", resp.ID)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
