package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/application"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/middleware"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
)

// --- テストヘルパー ---

// withUserID はテスト用にリクエストコンテキストにユーザーIDを注入するヘルパー。
func withUserID(r *http.Request, userID string) *http.Request {
	ctx := middleware.ContextWithUserID(r.Context(), userID)
	return r.WithContext(ctx)
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

// --- モック定義 ---

// mockApplicationService はApplicationServiceInterfaceのモック実装。
type mockApplicationService struct {
	listFn          func(ctx context.Context, userID string, filter repository.ApplicationFilter) ([]*model.ApplicationDetail, error)
	getFn           func(ctx context.Context, userID, id string) (*model.ApplicationDetail, error)
	createFn        func(ctx context.Context, userID string, input application.CreateInput) (*model.ApplicationDetail, error)
	updateFn        func(ctx context.Context, userID, id string, patch model.ApplicationPatch) (*model.ApplicationDetail, error)
	deleteFn        func(ctx context.Context, userID, id string) error
	listAIOutputsFn func(ctx context.Context, userID, applicationID string) ([]*model.AIOutput, error)
	listActivityFn  func(ctx context.Context, userID, applicationID string) ([]*model.ActivityEvent, error)
}

func (m *mockApplicationService) List(ctx context.Context, userID string, filter repository.ApplicationFilter) ([]*model.ApplicationDetail, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, filter)
	}
	return nil, nil
}

func (m *mockApplicationService) Get(ctx context.Context, userID, id string) (*model.ApplicationDetail, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, id)
	}
	return nil, nil
}

func (m *mockApplicationService) Create(ctx context.Context, userID string, input application.CreateInput) (*model.ApplicationDetail, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, input)
	}
	return nil, nil
}

func (m *mockApplicationService) Update(ctx context.Context, userID, id string, patch model.ApplicationPatch) (*model.ApplicationDetail, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, patch)
	}
	return nil, nil
}

func (m *mockApplicationService) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

func (m *mockApplicationService) ListAIOutputs(ctx context.Context, userID, applicationID string) ([]*model.AIOutput, error) {
	if m.listAIOutputsFn != nil {
		return m.listAIOutputsFn(ctx, userID, applicationID)
	}
	return nil, nil
}

func (m *mockApplicationService) ListActivity(ctx context.Context, userID, applicationID string) ([]*model.ActivityEvent, error) {
	if m.listActivityFn != nil {
		return m.listActivityFn(ctx, userID, applicationID)
	}
	return nil, nil
}

func sampleDetail() *model.ApplicationDetail {
	return &model.ApplicationDetail{
		Application: model.Application{
			ID:       "app-1",
			UserID:   "user-123",
			Status:   model.StatusApplied,
			Priority: model.PriorityHigh,
			Notes:    "referred by a friend",
		},
		JobPosting: model.JobPosting{
			ID:         "posting-1",
			Title:      "Backend Engineer",
			RemoteType: model.RemoteHybrid,
			Source:     model.SourceLinkedin,
		},
		Company: model.Company{
			ID:   "company-1",
			Name: "Acme Inc",
		},
	}
}

// --- POST /api/v1/applications テスト ---

func TestApplicationHandler_Create_Success(t *testing.T) {
	svc := &mockApplicationService{
		createFn: func(ctx context.Context, userID string, input application.CreateInput) (*model.ApplicationDetail, error) {
			if userID != "user-123" {
				t.Errorf("userID = %q, want %q", userID, "user-123")
			}
			if input.CompanyName != "Acme Inc" {
				t.Errorf("CompanyName = %q, want %q", input.CompanyName, "Acme Inc")
			}
			if input.Status != model.StatusApplied {
				t.Errorf("Status = %q, want applied", input.Status)
			}
			return sampleDetail(), nil
		},
	}

	h := NewApplicationHandler(svc)

	body := `{"company_name": "Acme Inc", "title": "Backend Engineer", "status": "applied"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}

	var resp applicationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "app-1" {
		t.Errorf("ID = %q, want app-1", resp.ID)
	}
	if resp.Company.Name != "Acme Inc" {
		t.Errorf("Company.Name = %q, want Acme Inc", resp.Company.Name)
	}
	if resp.JobPosting.Title != "Backend Engineer" {
		t.Errorf("JobPosting.Title = %q, want Backend Engineer", resp.JobPosting.Title)
	}
}

func TestApplicationHandler_Create_MissingCompanyName(t *testing.T) {
	h := NewApplicationHandler(&mockApplicationService{})

	body := `{"title": "Backend Engineer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeValidationFailed {
		t.Errorf("code = %q, want VALIDATION_FAILED", got)
	}
}

func TestApplicationHandler_Create_InvalidBody(t *testing.T) {
	h := NewApplicationHandler(&mockApplicationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString("{not json"))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeInvalidRequest {
		t.Errorf("code = %q, want INVALID_REQUEST", got)
	}
}

// --- GET /api/v1/applications テスト ---

func TestApplicationHandler_List_WithFilters(t *testing.T) {
	svc := &mockApplicationService{
		listFn: func(ctx context.Context, userID string, filter repository.ApplicationFilter) ([]*model.ApplicationDetail, error) {
			if filter.Status == nil || *filter.Status != model.StatusInterview {
				t.Errorf("filter.Status = %v, want interview", filter.Status)
			}
			if filter.Search != "acme" {
				t.Errorf("filter.Search = %q, want acme", filter.Search)
			}
			return []*model.ApplicationDetail{sampleDetail()}, nil
		},
	}

	h := NewApplicationHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications?status=interview&search=acme", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp []applicationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Errorf("len(resp) = %d, want 1", len(resp))
	}
}

func TestApplicationHandler_List_Empty(t *testing.T) {
	h := NewApplicationHandler(&mockApplicationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	// 空一覧はnullではなく[]を返す
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want []", got)
	}
}

// --- GET /api/v1/applications/{id} テスト ---

func TestApplicationHandler_Get_NotFound(t *testing.T) {
	svc := &mockApplicationService{
		getFn: func(ctx context.Context, userID, id string) (*model.ApplicationDetail, error) {
			return nil, model.NewApplicationNotFoundError(id)
		},
	}

	h := NewApplicationHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/missing", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeApplicationNotFound {
		t.Errorf("code = %q, want APPLICATION_NOT_FOUND", got)
	}
}

// --- PATCH /api/v1/applications/{id} テスト ---

func TestApplicationHandler_Update_PatchMapping(t *testing.T) {
	svc := &mockApplicationService{
		updateFn: func(ctx context.Context, userID, id string, patch model.ApplicationPatch) (*model.ApplicationDetail, error) {
			if patch.Status == nil || *patch.Status != model.StatusOffer {
				t.Errorf("patch.Status = %v, want offer", patch.Status)
			}
			if patch.Notes != nil {
				t.Errorf("patch.Notes = %v, want nil for an omitted field", patch.Notes)
			}
			return sampleDetail(), nil
		},
	}

	h := NewApplicationHandler(svc)

	body := `{"status": "offer"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/applications/app-1", bytes.NewBufferString(body))
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "app-1")
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// --- DELETE /api/v1/applications/{id} テスト ---

func TestApplicationHandler_Delete_Success(t *testing.T) {
	deleted := false
	svc := &mockApplicationService{
		deleteFn: func(ctx context.Context, userID, id string) error {
			deleted = true
			if id != "app-1" {
				t.Errorf("id = %q, want app-1", id)
			}
			return nil
		},
	}

	h := NewApplicationHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/applications/app-1", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "app-1")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if !deleted {
		t.Error("Delete was not called")
	}
}

// --- GET /api/v1/applications/{id}/ai-outputs テスト ---

func TestApplicationHandler_ListAIOutputs_Success(t *testing.T) {
	svc := &mockApplicationService{
		listAIOutputsFn: func(ctx context.Context, userID, applicationID string) ([]*model.AIOutput, error) {
			return []*model.AIOutput{
				{
					ID:             "output-1",
					ApplicationID:  applicationID,
					Kind:           model.KindMatch,
					Output:         json.RawMessage(`{"match_score": 78}`),
					Evidence:       json.RawMessage(`[]`),
					Model:          "test-model",
					LatencySeconds: 0.3,
					CreatedAt:      time.Now(),
				},
			}, nil
		},
	}

	h := NewApplicationHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/app-1/ai-outputs", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "app-1")
	w := httptest.NewRecorder()

	h.ListAIOutputs(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp []aiOutputResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Kind != "match" {
		t.Errorf("resp = %+v, want one match output", resp)
	}
}

// --- GET /api/v1/applications/{id}/activity テスト ---

func TestApplicationHandler_ListActivity_NotFound(t *testing.T) {
	svc := &mockApplicationService{
		listActivityFn: func(ctx context.Context, userID, applicationID string) ([]*model.ActivityEvent, error) {
			return nil, model.NewApplicationNotFoundError(applicationID)
		},
	}

	h := NewApplicationHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/app-1/activity", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "app-1")
	w := httptest.NewRecorder()

	h.ListActivity(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
