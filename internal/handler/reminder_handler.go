package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/middleware"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// ReminderServiceInterface はリマインダーハンドラーが必要とするサービスインターフェース。
type ReminderServiceInterface interface {
	// Create はリマインダーを作成する。
	Create(ctx context.Context, userID, applicationID, text string, dueAt time.Time) (*model.Reminder, error)
	// List はユーザーのリマインダー一覧を期日の昇順で返す。
	List(ctx context.Context, userID string, done *bool) ([]*model.Reminder, error)
	// Update はリマインダーを部分更新する。
	Update(ctx context.Context, userID, id string, patch model.ReminderPatch) (*model.Reminder, error)
}

// ReminderHandler はリマインダー管理のHTTPハンドラー。
type ReminderHandler struct {
	service ReminderServiceInterface
}

// NewReminderHandler はReminderHandlerを生成する。
func NewReminderHandler(service ReminderServiceInterface) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// createReminderRequest はリマインダー作成リクエストのボディ。
// 対象の応募はURLパスで指定する。
type createReminderRequest struct {
	Text  string    `json:"text" validate:"required"`
	DueAt time.Time `json:"due_at" validate:"required"`
}

// updateReminderRequest はリマインダー更新リクエストのボディ。
// nilフィールドは変更しない。
type updateReminderRequest struct {
	Text  *string    `json:"text"`
	DueAt *time.Time `json:"due_at"`
	Done  *bool      `json:"done"`
}

// reminderResponse はリマインダーのAPIレスポンス。
type reminderResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	Text          string    `json:"text"`
	DueAt         time.Time `json:"due_at"`
	Done          bool      `json:"done"`
	CreatedAt     time.Time `json:"created_at"`
}

// Create はリマインダー作成を処理する。
// POST /api/v1/applications/{id}/reminders
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createReminderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reminder, err := h.service.Create(r.Context(), userID, chi.URLParam(r, "id"), req.Text, req.DueAt)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toReminderResponse(reminder))
}

// List はリマインダー一覧を返す。
// GET /api/v1/reminders?done=
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var done *bool
	if raw := r.URL.Query().Get("done"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			handleServiceError(w, model.NewValidationError("doneはtrueまたはfalseを指定してください"))
			return
		}
		done = &parsed
	}

	reminders, err := h.service.List(r.Context(), userID, done)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	body := make([]reminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		body = append(body, toReminderResponse(reminder))
	}
	writeJSONResponse(w, http.StatusOK, body)
}

// Update はリマインダーの部分更新を処理する。
// PATCH /api/v1/reminders/{id}
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateReminderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reminder, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), model.ReminderPatch{
		Text:  req.Text,
		DueAt: req.DueAt,
		Done:  req.Done,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toReminderResponse(reminder))
}

// toReminderResponse はmodel.ReminderからAPIレスポンスに変換する。
func toReminderResponse(reminder *model.Reminder) reminderResponse {
	return reminderResponse{
		ID:            reminder.ID,
		ApplicationID: reminder.ApplicationID,
		Text:          reminder.Text,
		DueAt:         reminder.DueAt,
		Done:          reminder.Done,
		CreatedAt:     reminder.CreatedAt,
	}
}
