// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"encoding/json"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateWithProfile はユーザーと空プロフィールを同一トランザクションで作成する。
	// 全ユーザーは登録時点でプロフィールを持つという不変条件を保証する。
	CreateWithProfile(ctx context.Context, user *model.User, profile *model.Profile) error
}

// ProfileRepository はプロフィールデータの永続化インターフェース。
type ProfileRepository interface {
	// FindByUserID は指定ユーザーのプロフィールを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// Create はプロフィールを作成する。
	Create(ctx context.Context, profile *model.Profile) error

	// Update はプロフィール全体を上書き更新する。
	Update(ctx context.Context, profile *model.Profile) error
}

// CompanyRepository は企業データの永続化インターフェース。
// 全操作はユーザーIDでスコープされる。
type CompanyRepository interface {
	// FindByID は指定IDの企業を取得する。他ユーザー所有も含め
	// 見つからない場合はnilを返す。
	FindByID(ctx context.Context, id, userID string) (*model.Company, error)

	// FindByName は企業名で企業を検索する。見つからない場合はnilを返す。
	// 応募のフラット作成時のfind-or-createに使用する。
	FindByName(ctx context.Context, userID, name string) (*model.Company, error)

	// ListByUserID はユーザーの企業一覧を名前順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Company, error)
}

// ApplicationFilter は応募一覧の絞り込み条件を表す。
type ApplicationFilter struct {
	// Status が非nilの場合、該当ステータスのみ返す。
	Status *model.ApplicationStatus
	// Search が非空の場合、求人タイトルまたは企業名に対する
	// 大文字小文字を区別しない部分一致で絞り込む（クエリレベルで実行）。
	Search string
}

// ApplicationRepository は応募データの永続化インターフェース。
type ApplicationRepository interface {
	// FindByID は指定IDの応募を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id, userID string) (*model.Application, error)

	// FindDetailByID は応募を求人・企業情報と結合して取得する。
	// 見つからない場合はnilを返す。
	FindDetailByID(ctx context.Context, id, userID string) (*model.ApplicationDetail, error)

	// List はユーザーの応募一覧をupdated_at降順で返す。
	// フィルタ条件（ステータス、検索語）はすべてクエリレベルで適用する。
	List(ctx context.Context, userID string, filter ApplicationFilter) ([]*model.ApplicationDetail, error)

	// CreateFlat は企業（必要な場合）・求人・応募を同一トランザクションで作成する。
	// createCompanyがtrueの場合のみcompanyをINSERTする。
	CreateFlat(ctx context.Context, company *model.Company, createCompany bool, posting *model.JobPosting, app *model.Application) error

	// Update は応募を上書き更新し、updated_atを進める。
	Update(ctx context.Context, app *model.Application) error

	// DeleteCascade は応募と子レコード（reminders, ai_outputs, ai_tasks,
	// activity_events）を同一トランザクションで削除する。
	// 対象が存在しない場合はmodel.APIError(APPLICATION_NOT_FOUND)を返す。
	DeleteCascade(ctx context.Context, id, userID string) error
}

// ReminderRepository はリマインダーデータの永続化インターフェース。
type ReminderRepository interface {
	// FindByID は指定IDのリマインダーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id, userID string) (*model.Reminder, error)

	// Create はリマインダーを作成する。
	Create(ctx context.Context, reminder *model.Reminder) error

	// ListByUserID はユーザーのリマインダー一覧をdue_at昇順で返す。
	// doneが非nilの場合は完了状態で絞り込む。
	ListByUserID(ctx context.Context, userID string, done *bool) ([]*model.Reminder, error)

	// Update はリマインダーを上書き更新する。
	Update(ctx context.Context, reminder *model.Reminder) error
}

// AIOutputRepository はAI実行結果の永続化インターフェース。
// 出力はAPIからは追記専用として扱う。
type AIOutputRepository interface {
	// Create はAI実行結果を保存する。
	Create(ctx context.Context, output *model.AIOutput) error

	// ListByApplicationID は応募のAI実行結果一覧をcreated_at降順で返す。
	ListByApplicationID(ctx context.Context, applicationID string) ([]*model.AIOutput, error)
}

// AITaskRepository はAIタスク状態の永続化インターフェース。
// ポーリングAPIとワーカーの両方から使用する。
type AITaskRepository interface {
	// Create はタスクをsubmitted状態で作成する。
	Create(ctx context.Context, task *model.AITask) error

	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.AITask, error)

	// MarkRunning はタスクをrunning状態に遷移させる。
	MarkRunning(ctx context.Context, id string) error

	// MarkSucceeded はタスクをsucceeded状態に遷移させ、結果を保存する。
	MarkSucceeded(ctx context.Context, id string, result json.RawMessage) error

	// MarkFailed はタスクをfailed状態に遷移させ、エラー内容を保存する。
	MarkFailed(ctx context.Context, id string, taskErr string) error
}

// ActivityEventRepository は応募タイムラインの永続化インターフェース。
type ActivityEventRepository interface {
	// Append はイベントを追記する。
	Append(ctx context.Context, event *model.ActivityEvent) error

	// ListByApplicationID は応募のイベント一覧をcreated_at降順で返す。
	ListByApplicationID(ctx context.Context, applicationID string) ([]*model.ActivityEvent, error)
}
