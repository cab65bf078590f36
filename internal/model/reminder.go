package model

import "time"

// Reminder は応募に紐づくフォローアップタスクを表す。
// ユーザーと応募の両方にスコープされる。
type Reminder struct {
	ID            string
	ApplicationID string
	UserID        string
	Text          string
	DueAt         time.Time
	Done          bool
	CreatedAt     time.Time
}

// ReminderPatch はリマインダーの部分更新を表す。nilフィールドは変更しない。
type ReminderPatch struct {
	Text  *string
	DueAt *time.Time
	Done  *bool
}
