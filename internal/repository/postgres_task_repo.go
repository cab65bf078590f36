package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// PostgresAITaskRepo はPostgreSQLを使用したAIタスク状態リポジトリ。
// タスク状態の遷移（submitted -> running -> succeeded | failed）を永続化する。
type PostgresAITaskRepo struct {
	db *sql.DB
}

// NewPostgresAITaskRepo はPostgresAITaskRepoを生成する。
func NewPostgresAITaskRepo(db *sql.DB) *PostgresAITaskRepo {
	return &PostgresAITaskRepo{db: db}
}

// Create はタスクをsubmitted状態で作成する。
func (r *PostgresAITaskRepo) Create(ctx context.Context, task *model.AITask) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ai_tasks (id, application_id, user_id, kind, status, error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, '', $6, $7)`,
		task.ID, task.ApplicationID, task.UserID, task.Kind, task.Status,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ai task: %w", err)
	}
	return nil
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresAITaskRepo) FindByID(ctx context.Context, id string) (*model.AITask, error) {
	task := &model.AITask{}
	var resultJSON []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT id, application_id, user_id, kind, status, result_json, error, created_at, updated_at
		 FROM ai_tasks WHERE id = $1`,
		id,
	).Scan(
		&task.ID, &task.ApplicationID, &task.UserID, &task.Kind, &task.Status,
		&resultJSON, &task.Error, &task.CreatedAt, &task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ai task: %w", err)
	}

	task.Result = resultJSON
	return task, nil
}

// MarkRunning はタスクをrunning状態に遷移させる。
func (r *PostgresAITaskRepo) MarkRunning(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, model.TaskRunning, nil, "")
}

// MarkSucceeded はタスクをsucceeded状態に遷移させ、結果を保存する。
func (r *PostgresAITaskRepo) MarkSucceeded(ctx context.Context, id string, result json.RawMessage) error {
	return r.setStatus(ctx, id, model.TaskSucceeded, result, "")
}

// MarkFailed はタスクをfailed状態に遷移させ、エラー内容を保存する。
func (r *PostgresAITaskRepo) MarkFailed(ctx context.Context, id string, taskErr string) error {
	return r.setStatus(ctx, id, model.TaskFailed, nil, taskErr)
}

func (r *PostgresAITaskRepo) setStatus(ctx context.Context, id string, status model.AITaskStatus, result json.RawMessage, taskErr string) error {
	var resultJSON any
	if result != nil {
		resultJSON = []byte(result)
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE ai_tasks SET status = $1, result_json = COALESCE($2, result_json), error = $3, updated_at = $4
		 WHERE id = $5`,
		status, resultJSON, taskErr, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update ai task status: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AITaskRepository = (*PostgresAITaskRepo)(nil)
