// Package aitask はAIタスクのキュー投入とワーカー処理を提供する。
//
// ブローカーにはRedis（asynq）を使用する。リトライはキュー側では行わず、
// 失敗はai_tasksレコードに記録する。APIはそのレコードをポーリングする。
package aitask

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TypeAIRun はAIタスク実行のタスク種別名。
const TypeAIRun = "ai:run"

// aiRunPayload はキューに積むペイロード。
// タスクの実体（種別・対象応募）はai_tasksテーブル側が持つ。
type aiRunPayload struct {
	TaskID string `json:"task_id"`
}

// NewAIRunTask はAIタスク実行のasynqタスクを生成する。
func NewAIRunTask(taskID string) (*asynq.Task, error) {
	payload, err := json.Marshal(aiRunPayload{TaskID: taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}
	return asynq.NewTask(TypeAIRun, payload), nil
}
