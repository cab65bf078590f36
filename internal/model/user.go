// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile はユーザーの経歴情報を表す。
// AIプロンプトのグラウンディング情報として使用する。
// skills/projects/experience/links はJSONカラムに格納する非構造化データ。
type Profile struct {
	ID         string
	UserID     string
	Headline   string
	Summary    string
	Location   string
	Links      map[string]string
	Skills     []string
	Projects   []ProjectItem
	Experience []ExperienceItem
	UpdatedAt  time.Time
}

// ProfilePatch はプロフィールの部分更新を表す。nilフィールドは変更しない。
// リクエストに含まれたフィールドのみを明示的にマージする。
type ProfilePatch struct {
	Headline   *string
	Summary    *string
	Location   *string
	Links      *map[string]string
	Skills     *[]string
	Projects   *[]ProjectItem
	Experience *[]ExperienceItem
}

// ProjectItem はプロフィールに記載する個人プロジェクトを表す。
type ProjectItem struct {
	Name    string   `json:"name"`
	Stack   string   `json:"stack"`
	Bullets []string `json:"bullets"`
	Metrics string   `json:"metrics,omitempty"`
}

// ExperienceItem はプロフィールに記載する職務経歴を表す。
type ExperienceItem struct {
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date,omitempty"`
	Bullets   []string `json:"bullets"`
}
