package model

import (
	"encoding/json"
	"time"
)

// ActivityEventType は応募タイムラインのイベント種別を表す。
type ActivityEventType string

const (
	EventStatusChanged   ActivityEventType = "status_changed"
	EventNoteAdded       ActivityEventType = "note_added"
	EventAIRequested     ActivityEventType = "ai_requested"
	EventAIReady         ActivityEventType = "ai_ready"
	EventReminderCreated ActivityEventType = "reminder_created"
	EventReminderDone    ActivityEventType = "reminder_done"
)

// ActivityEvent は応募タイムラインの1エントリを表す。
// ドメイン操作（ステータス変更、AI結果生成、リマインダー操作）に
// 連動して追記される。
type ActivityEvent struct {
	ID            string
	ApplicationID string
	Type          ActivityEventType
	Payload       json.RawMessage
	CreatedAt     time.Time
}
