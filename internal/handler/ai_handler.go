package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/middleware"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// AIDispatchInterface はAIハンドラーが必要とするサービスインターフェース。
type AIDispatchInterface interface {
	// Submit はAIタスクを受け付けてキューに投入する。
	Submit(ctx context.Context, userID, applicationID string, kind model.AIOutputKind) (*model.AITask, error)
	// GetTask はタスクの現在状態を返す。
	GetTask(ctx context.Context, userID, taskID string) (*model.AITask, error)
}

// AIHandler はAIタスク受付・ポーリングのHTTPハンドラー。
type AIHandler struct {
	dispatcher AIDispatchInterface
}

// NewAIHandler はAIHandlerを生成する。
func NewAIHandler(dispatcher AIDispatchInterface) *AIHandler {
	return &AIHandler{dispatcher: dispatcher}
}

// aiTaskResponse はAIタスク状態のAPIレスポンス。
// Resultは成功時のみ、Errorは失敗時のみ値を持つ。
type aiTaskResponse struct {
	TaskID string          `json:"task_id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Submit はAIタスクの受付を処理する。
// 種別はparse-jdのようにハイフン区切りのURL表記で受け取る。
// POST /api/v1/ai/{kind}/{applicationID}
func (h *AIHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	kind := model.ParseAIOutputKind(chi.URLParam(r, "kind"))
	applicationID := chi.URLParam(r, "applicationID")

	task, err := h.dispatcher.Submit(r.Context(), userID, applicationID, kind)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toAITaskResponse(task))
}

// GetTask はAIタスクのポーリングを処理する。
// タスクが存在する限り、失敗したタスクも200で状態を返す。
// GET /api/v1/ai/tasks/{taskID}
func (h *AIHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	task, err := h.dispatcher.GetTask(r.Context(), userID, chi.URLParam(r, "taskID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toAITaskResponse(task))
}

// toAITaskResponse はmodel.AITaskからAPIレスポンスに変換する。
func toAITaskResponse(task *model.AITask) aiTaskResponse {
	return aiTaskResponse{
		TaskID: task.ID,
		Status: string(task.Status),
		Result: task.Result,
		Error:  task.Error,
	}
}
