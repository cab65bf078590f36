package aitask

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TaskEnqueuer はAIタスクのキュー投入インターフェース。
// ハンドラーから利用する。
type TaskEnqueuer interface {
	// Enqueue は指定タスクIDの実行をキューに積む。
	Enqueue(ctx context.Context, taskID string) error
}

// Enqueuer はasynqクライアントによるTaskEnqueuerの実装。
type Enqueuer struct {
	client  *asynq.Client
	timeout time.Duration
}

// NewEnqueuer はEnqueuerを生成する。
// timeoutはワーカー側での1タスクあたりの実行上限。
func NewEnqueuer(redisAddr string, timeout time.Duration) *Enqueuer {
	return &Enqueuer{
		client:  asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		timeout: timeout,
	}
}

// Enqueue はAIタスクをキューに積む。
// リトライは行わない（MaxRetry 0）。失敗はai_tasksレコードに記録される。
func (e *Enqueuer) Enqueue(ctx context.Context, taskID string) error {
	task, err := NewAIRunTask(taskID)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(0),
		asynq.Timeout(e.timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue ai task: %w", err)
	}

	slog.Info("ai task enqueued",
		slog.String("task_id", taskID),
		slog.String("queue_id", info.ID),
	)
	return nil
}

// Close はブローカー接続を閉じる。
func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// compile-time interface check
var _ TaskEnqueuer = (*Enqueuer)(nil)
