package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/middleware"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// mockUserResolver はmiddleware.UserResolverのモック実装。
type mockUserResolver struct {
	user *model.User
}

func (m *mockUserResolver) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	if m.user == nil {
		return nil, model.NewUnauthorizedError()
	}
	return m.user, nil
}

func newTestRouter(resolver middleware.UserResolver) http.Handler {
	rl := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(600))

	return NewRouter(&RouterDeps{
		UserResolver:      resolver,
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,

		AuthService: &mockAuthService{
			registerFn: func(ctx context.Context, email, password string) (string, *model.User, error) {
				return "token-1", &model.User{ID: "user-1", Email: email}, nil
			},
		},
		ProfileService: &mockProfileService{
			getFn: func(ctx context.Context, userID string) (*model.Profile, error) {
				return &model.Profile{ID: "profile-1", UserID: userID}, nil
			},
		},
		CompanyService:     &mockCompanyService{},
		ApplicationService: &mockApplicationService{},
		ReminderService:    &mockReminderService{},
		AIDispatcher:       &mockAIDispatcher{},
	})
}

func TestRouter_HealthWithoutAuth(t *testing.T) {
	router := newTestRouter(&mockUserResolver{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRouter_RegisterWithoutAuth(t *testing.T) {
	router := newTestRouter(&mockUserResolver{})

	body := `{"email": "user@example.com", "password": "s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}

func TestRouter_ProtectedRouteRequiresAuth(t *testing.T) {
	router := newTestRouter(&mockUserResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRouter_ProtectedRouteWithValidToken(t *testing.T) {
	router := newTestRouter(&mockUserResolver{user: &model.User{ID: "user-1"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRouter_CORSHeadersApplied(t *testing.T) {
	router := newTestRouter(&mockUserResolver{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q, want http://localhost:3000", got)
	}
}
