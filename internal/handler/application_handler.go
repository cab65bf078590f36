package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/application"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/middleware"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
)

// ApplicationServiceInterface は応募ハンドラーが必要とするサービスインターフェース。
type ApplicationServiceInterface interface {
	// List はユーザーの応募一覧を更新日時の降順で返す。
	List(ctx context.Context, userID string, filter repository.ApplicationFilter) ([]*model.ApplicationDetail, error)
	// Get は応募を求人・企業情報と結合して取得する。
	Get(ctx context.Context, userID, id string) (*model.ApplicationDetail, error)
	// Create は企業・求人・応募をまとめて作成する。
	Create(ctx context.Context, userID string, input application.CreateInput) (*model.ApplicationDetail, error)
	// Update は応募を部分更新する。
	Update(ctx context.Context, userID, id string, patch model.ApplicationPatch) (*model.ApplicationDetail, error)
	// Delete は応募と子レコードをまとめて削除する。
	Delete(ctx context.Context, userID, id string) error
	// ListAIOutputs は応募のAI実行結果一覧を返す。
	ListAIOutputs(ctx context.Context, userID, applicationID string) ([]*model.AIOutput, error)
	// ListActivity は応募のタイムラインイベント一覧を返す。
	ListActivity(ctx context.Context, userID, applicationID string) ([]*model.ActivityEvent, error)
}

// ApplicationHandler は応募管理のHTTPハンドラー。
type ApplicationHandler struct {
	service ApplicationServiceInterface
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(service ApplicationServiceInterface) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// createApplicationRequest は応募のフラット作成リクエストのボディ。
type createApplicationRequest struct {
	CompanyName       string     `json:"company_name" validate:"required"`
	Title             string     `json:"title" validate:"required"`
	Location          string     `json:"location"`
	RemoteType        string     `json:"remote_type"`
	PostingURL        string     `json:"posting_url"`
	Source            string     `json:"source"`
	DescriptionRaw    string     `json:"description_raw"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	Notes             string     `json:"notes"`
	AppliedAt         *time.Time `json:"applied_at"`
	NextFollowupAt    *time.Time `json:"next_followup_at"`
	SalaryExpectation *int       `json:"salary_expectation"`
}

// updateApplicationRequest は応募の部分更新リクエストのボディ。
// nilフィールドは変更しない。
type updateApplicationRequest struct {
	Status            *string    `json:"status"`
	Priority          *string    `json:"priority"`
	Notes             *string    `json:"notes"`
	AppliedAt         *time.Time `json:"applied_at"`
	NextFollowupAt    *time.Time `json:"next_followup_at"`
	SalaryExpectation *int       `json:"salary_expectation"`
}

// jobPostingResponse は求人情報のAPIレスポンス。
type jobPostingResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Location       string `json:"location"`
	RemoteType     string `json:"remote_type"`
	PostingURL     string `json:"posting_url"`
	Source         string `json:"source"`
	DescriptionRaw string `json:"description_raw"`
}

// applicationResponse は応募詳細のAPIレスポンス。
type applicationResponse struct {
	ID                string             `json:"id"`
	Status            string             `json:"status"`
	Priority          string             `json:"priority"`
	Notes             string             `json:"notes"`
	AppliedAt         *time.Time         `json:"applied_at"`
	NextFollowupAt    *time.Time         `json:"next_followup_at"`
	SalaryExpectation *int               `json:"salary_expectation"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	Company           companyResponse    `json:"company"`
	JobPosting        jobPostingResponse `json:"job_posting"`
}

// aiOutputResponse はAI実行結果のAPIレスポンス。
type aiOutputResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Output         json.RawMessage `json:"output"`
	Evidence       json.RawMessage `json:"evidence"`
	Model          string          `json:"model"`
	LatencySeconds float64         `json:"latency_seconds"`
	CreatedAt      time.Time       `json:"created_at"`
}

// activityEventResponse はタイムラインイベントのAPIレスポンス。
type activityEventResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// List は応募一覧を返す。
// GET /api/v1/applications?status=&search=
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	filter := repository.ApplicationFilter{
		Search: r.URL.Query().Get("search"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := model.ApplicationStatus(status)
		filter.Status = &s
	}

	details, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	body := make([]applicationResponse, 0, len(details))
	for _, detail := range details {
		body = append(body, toApplicationResponse(detail))
	}
	writeJSONResponse(w, http.StatusOK, body)
}

// Create は応募のフラット作成を処理する。
// POST /api/v1/applications
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createApplicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	detail, err := h.service.Create(r.Context(), userID, application.CreateInput{
		CompanyName:       req.CompanyName,
		Title:             req.Title,
		Location:          req.Location,
		RemoteType:        model.RemoteType(req.RemoteType),
		PostingURL:        req.PostingURL,
		Source:            model.JobSource(req.Source),
		DescriptionRaw:    req.DescriptionRaw,
		Status:            model.ApplicationStatus(req.Status),
		Priority:          model.ApplicationPriority(req.Priority),
		Notes:             req.Notes,
		AppliedAt:         req.AppliedAt,
		NextFollowupAt:    req.NextFollowupAt,
		SalaryExpectation: req.SalaryExpectation,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toApplicationResponse(detail))
}

// Get は応募詳細を返す。
// GET /api/v1/applications/{id}
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	detail, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toApplicationResponse(detail))
}

// Update は応募の部分更新を処理する。
// PATCH /api/v1/applications/{id}
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateApplicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	patch := model.ApplicationPatch{
		Notes:             req.Notes,
		AppliedAt:         req.AppliedAt,
		NextFollowupAt:    req.NextFollowupAt,
		SalaryExpectation: req.SalaryExpectation,
	}
	if req.Status != nil {
		s := model.ApplicationStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := model.ApplicationPriority(*req.Priority)
		patch.Priority = &p
	}

	detail, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toApplicationResponse(detail))
}

// Delete は応募と子レコードの削除を処理する。
// DELETE /api/v1/applications/{id}
func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAIOutputs は応募のAI実行結果一覧を返す。
// GET /api/v1/applications/{id}/ai-outputs
func (h *ApplicationHandler) ListAIOutputs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	outputs, err := h.service.ListAIOutputs(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	body := make([]aiOutputResponse, 0, len(outputs))
	for _, output := range outputs {
		body = append(body, aiOutputResponse{
			ID:             output.ID,
			Kind:           string(output.Kind),
			Output:         output.Output,
			Evidence:       output.Evidence,
			Model:          output.Model,
			LatencySeconds: output.LatencySeconds,
			CreatedAt:      output.CreatedAt,
		})
	}
	writeJSONResponse(w, http.StatusOK, body)
}

// ListActivity は応募のタイムラインイベント一覧を返す。
// GET /api/v1/applications/{id}/activity
func (h *ApplicationHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	events, err := h.service.ListActivity(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	body := make([]activityEventResponse, 0, len(events))
	for _, event := range events {
		body = append(body, activityEventResponse{
			ID:        event.ID,
			Type:      string(event.Type),
			Payload:   event.Payload,
			CreatedAt: event.CreatedAt,
		})
	}
	writeJSONResponse(w, http.StatusOK, body)
}

// toApplicationResponse はmodel.ApplicationDetailからAPIレスポンスに変換する。
func toApplicationResponse(detail *model.ApplicationDetail) applicationResponse {
	return applicationResponse{
		ID:                detail.ID,
		Status:            string(detail.Status),
		Priority:          string(detail.Priority),
		Notes:             detail.Notes,
		AppliedAt:         detail.AppliedAt,
		NextFollowupAt:    detail.NextFollowupAt,
		SalaryExpectation: detail.SalaryExpectation,
		CreatedAt:         detail.CreatedAt,
		UpdatedAt:         detail.UpdatedAt,
		Company:           toCompanyResponse(&detail.Company),
		JobPosting: jobPostingResponse{
			ID:             detail.JobPosting.ID,
			Title:          detail.JobPosting.Title,
			Location:       detail.JobPosting.Location,
			RemoteType:     string(detail.JobPosting.RemoteType),
			PostingURL:     detail.JobPosting.PostingURL,
			Source:         string(detail.JobPosting.Source),
			DescriptionRaw: detail.JobPosting.DescriptionRaw,
		},
	}
}
