package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/metrics"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
)

// Runner はAIタスク1件の実行パイプラインを担う。
//
// 実行手順:
//  1. タスクをrunningに遷移させる。
//  2. 応募と求人票を読み込む（必要ならプロフィールも）。
//  3. プロンプトを構築し、クライアントを呼び出す。
//  4. 応答をスキーマ検証し、エビデンスを抽出する。
//  5. AIOutputを保存し、ai_readyイベントを追記する。
//  6. タスクをsucceededに遷移させる。
//
// 失敗はタスクレコードに記録され、呼び出し元へのエラーにはならない。
// キュー側でのリトライは行わない。
type Runner struct {
	taskRepo     repository.AITaskRepository
	appRepo      repository.ApplicationRepository
	profileRepo  repository.ProfileRepository
	outputRepo   repository.AIOutputRepository
	activityRepo repository.ActivityEventRepository
	client       Client
	modelName    string
	metrics      metrics.MetricsCollector
}

// NewRunner はRunnerを生成する。
func NewRunner(
	taskRepo repository.AITaskRepository,
	appRepo repository.ApplicationRepository,
	profileRepo repository.ProfileRepository,
	outputRepo repository.AIOutputRepository,
	activityRepo repository.ActivityEventRepository,
	client Client,
	modelName string,
	collector metrics.MetricsCollector,
) *Runner {
	return &Runner{
		taskRepo:     taskRepo,
		appRepo:      appRepo,
		profileRepo:  profileRepo,
		outputRepo:   outputRepo,
		activityRepo: activityRepo,
		client:       client,
		modelName:    modelName,
		metrics:      collector,
	}
}

// Run は指定タスクを実行する。
// タスクが見つからない・既に終端状態の場合は何もしない。
// 実行エラーはタスクのfailed状態として記録する。
func (r *Runner) Run(ctx context.Context, taskID string) error {
	task, err := r.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to load ai task: %w", err)
	}
	if task == nil {
		slog.Warn("ai task not found, skipping", slog.String("task_id", taskID))
		return nil
	}
	if task.Status.Terminal() {
		slog.Info("ai task already in terminal state, skipping",
			slog.String("task_id", taskID),
			slog.String("status", string(task.Status)),
		)
		return nil
	}

	if err := r.taskRepo.MarkRunning(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to mark task running: %w", err)
	}

	result, runErr := r.execute(ctx, task)
	if runErr != nil {
		slog.Error("ai task failed",
			slog.String("task_id", task.ID),
			slog.String("kind", string(task.Kind)),
			slog.String("error", runErr.Error()),
		)
		r.metrics.RecordAITaskFailure(string(task.Kind))
		if err := r.taskRepo.MarkFailed(ctx, task.ID, runErr.Error()); err != nil {
			return fmt.Errorf("failed to mark task failed: %w", err)
		}
		return nil
	}

	r.metrics.RecordAITaskSuccess(string(task.Kind))
	if err := r.taskRepo.MarkSucceeded(ctx, task.ID, result); err != nil {
		return fmt.Errorf("failed to mark task succeeded: %w", err)
	}

	slog.Info("ai task succeeded",
		slog.String("task_id", task.ID),
		slog.String("kind", string(task.Kind)),
	)
	return nil
}

// execute はプロンプト構築からAIOutput保存までの本体処理を行う。
func (r *Runner) execute(ctx context.Context, task *model.AITask) (json.RawMessage, error) {
	detail, err := r.appRepo.FindDetailByID(ctx, task.ApplicationID, task.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("application not found: %s", task.ApplicationID)
	}

	jdText := detail.JobPosting.DescriptionRaw

	profileJSON := "{}"
	if NeedsProfile(task.Kind) {
		profile, err := r.profileRepo.FindByUserID(ctx, task.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		if profile == nil {
			return nil, fmt.Errorf("profile not found for user: %s", task.UserID)
		}
		profileJSON, err = promptProfileJSON(profile)
		if err != nil {
			return nil, err
		}
	}

	system, user, err := BuildPrompt(task.Kind, jdText, profileJSON)
	if err != nil {
		return nil, err
	}

	raw, latency, err := r.client.ChatJSON(ctx, system, user, task.Kind)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordAILatency(time.Duration(latency * float64(time.Second)))

	validated, err := ValidateOutput(task.Kind, raw)
	if err != nil {
		return nil, err
	}

	output := &model.AIOutput{
		ID:             uuid.New().String(),
		ApplicationID:  task.ApplicationID,
		Kind:           task.Kind,
		InputHash:      Fingerprint(jdText, profileJSON),
		Output:         validated,
		Evidence:       ExtractEvidence(validated),
		Model:          r.modelName,
		LatencySeconds: latency,
		CreatedAt:      time.Now(),
	}
	if err := r.outputRepo.Create(ctx, output); err != nil {
		return nil, fmt.Errorf("failed to save ai output: %w", err)
	}

	r.appendReadyEvent(ctx, task)

	return validated, nil
}

// appendReadyEvent はai_readyイベントをタイムラインに追記する。
// 追記失敗はAIタスク自体の結果に影響させない。
func (r *Runner) appendReadyEvent(ctx context.Context, task *model.AITask) {
	payload, _ := json.Marshal(map[string]string{"kind": string(task.Kind)})
	event := &model.ActivityEvent{
		ID:            uuid.New().String(),
		ApplicationID: task.ApplicationID,
		Type:          model.EventAIReady,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
	if err := r.activityRepo.Append(ctx, event); err != nil {
		slog.Warn("failed to append ai_ready event",
			slog.String("application_id", task.ApplicationID),
			slog.String("error", err.Error()),
		)
	}
}

// promptProfileJSON はプロンプトに埋め込むプロフィール表現を構築する。
// パスワード等の無関係なフィールドは含めない。
func promptProfileJSON(profile *model.Profile) (string, error) {
	data := map[string]any{
		"headline":   profile.Headline,
		"summary":    profile.Summary,
		"skills":     profile.Skills,
		"projects":   profile.Projects,
		"experience": profile.Experience,
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile for prompt: %w", err)
	}
	return string(b), nil
}
