package aitask

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// TaskRunner はAIタスク1件を実行するインターフェース。
// 実装はai.Runner。
type TaskRunner interface {
	Run(ctx context.Context, taskID string) error
}

// Processor はキューから受け取ったAIタスクを処理する。
type Processor struct {
	runner TaskRunner
}

// NewProcessor はProcessorを生成する。
func NewProcessor(runner TaskRunner) *Processor {
	return &Processor{runner: runner}
}

// HandleAIRun はai:runタスクを処理する。
// Runner内でAI実行の失敗はai_tasksレコードに記録済みのため、
// ここではインフラ障害（DB接続断など）のみをエラーとして返す。
// リトライはMaxRetry 0のため行われない。
func (p *Processor) HandleAIRun(ctx context.Context, t *asynq.Task) error {
	var payload aiRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	if err := p.runner.Run(ctx, payload.TaskID); err != nil {
		slog.Error("ai task processing failed",
			slog.String("task_id", payload.TaskID),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Register はProcessorのハンドラーをmuxに登録する。
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeAIRun, p.HandleAIRun)
}
