package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
)

// TaskEnqueuer はAIタスクをバックグラウンドキューに投入するインターフェース。
type TaskEnqueuer interface {
	// Enqueue はタスクIDをキューに投入する。
	Enqueue(ctx context.Context, taskID string) error
}

// Dispatcher はAIタスクの受付とポーリングを提供する。
// タスクはsubmitted状態で永続化してからキューに投入する。
// 実行結果・エラーはタスクレコードに記録され、ポーリングAPIで取得する。
type Dispatcher struct {
	taskRepo     repository.AITaskRepository
	appRepo      repository.ApplicationRepository
	activityRepo repository.ActivityEventRepository
	enqueuer     TaskEnqueuer
}

// NewDispatcher はDispatcherを生成する。
func NewDispatcher(
	taskRepo repository.AITaskRepository,
	appRepo repository.ApplicationRepository,
	activityRepo repository.ActivityEventRepository,
	enqueuer TaskEnqueuer,
) *Dispatcher {
	return &Dispatcher{
		taskRepo:     taskRepo,
		appRepo:      appRepo,
		activityRepo: activityRepo,
		enqueuer:     enqueuer,
	}
}

// Submit はAIタスクを受け付けてキューに投入する。
// 応募の所有確認を先に行い、他ユーザーの応募には実行できない。
// キュー投入に失敗した場合はタスクをfailedに遷移させてからエラーを返す。
func (d *Dispatcher) Submit(ctx context.Context, userID, applicationID string, kind model.AIOutputKind) (*model.AITask, error) {
	if !model.ValidAIOutputKind(kind) {
		return nil, model.NewValidationError(fmt.Sprintf("不明なAI機能です: %s", kind))
	}

	app, err := d.appRepo.FindByID(ctx, applicationID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	if app == nil {
		return nil, model.NewApplicationNotFoundError(applicationID)
	}

	now := time.Now()
	task := &model.AITask{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		UserID:        userID,
		Kind:          kind,
		Status:        model.TaskSubmitted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := d.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create ai task: %w", err)
	}

	d.appendRequestedEvent(ctx, applicationID, kind)

	if err := d.enqueuer.Enqueue(ctx, task.ID); err != nil {
		if markErr := d.taskRepo.MarkFailed(ctx, task.ID, "タスクのキュー投入に失敗しました。"); markErr != nil {
			slog.Error("failed to mark task as failed",
				slog.String("task_id", task.ID),
				slog.String("error", markErr.Error()),
			)
		}
		return nil, fmt.Errorf("failed to enqueue ai task: %w", err)
	}

	slog.Info("ai task submitted",
		slog.String("task_id", task.ID),
		slog.String("application_id", applicationID),
		slog.String("kind", string(kind)),
	)

	return task, nil
}

// GetTask はタスクの現在状態を返す。
// 他ユーザーのタスクは存在を隠すため未検出として扱う。
func (d *Dispatcher) GetTask(ctx context.Context, userID, taskID string) (*model.AITask, error) {
	task, err := d.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ai task: %w", err)
	}
	if task == nil || task.UserID != userID {
		return nil, model.NewTaskNotFoundError(taskID)
	}
	return task, nil
}

// appendRequestedEvent はai_requestedイベントを追記する。追記失敗は主操作を巻き戻さない。
func (d *Dispatcher) appendRequestedEvent(ctx context.Context, applicationID string, kind model.AIOutputKind) {
	payload, _ := json.Marshal(map[string]string{"kind": string(kind)})
	event := &model.ActivityEvent{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		Type:          model.EventAIRequested,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
	if err := d.activityRepo.Append(ctx, event); err != nil {
		slog.Warn("failed to append activity event",
			slog.String("application_id", applicationID),
			slog.String("type", string(model.EventAIRequested)),
			slog.String("error", err.Error()),
		)
	}
}
