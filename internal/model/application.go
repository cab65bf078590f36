package model

import "time"

// ApplicationStatus は応募のパイプライン上のステータスを表す。
type ApplicationStatus string

const (
	StatusNotApplied ApplicationStatus = "not_applied"
	StatusApplied    ApplicationStatus = "applied"
	StatusInterview  ApplicationStatus = "interview"
	StatusOffer      ApplicationStatus = "offer"
	StatusRejected   ApplicationStatus = "rejected"
	StatusArchived   ApplicationStatus = "archived"
)

// ValidApplicationStatus はステータス値が定義済みかを判定する。
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case StatusNotApplied, StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// ApplicationPriority は応募の優先度を表す。
type ApplicationPriority string

const (
	PriorityLow    ApplicationPriority = "low"
	PriorityMedium ApplicationPriority = "medium"
	PriorityHigh   ApplicationPriority = "high"
)

// ValidApplicationPriority は優先度値が定義済みかを判定する。
func ValidApplicationPriority(p ApplicationPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// RemoteType は勤務形態を表す。
type RemoteType string

const (
	RemoteOnsite RemoteType = "onsite"
	RemoteHybrid RemoteType = "hybrid"
	RemoteFull   RemoteType = "remote"
)

// JobSource は求人情報の取得元を表す。
type JobSource string

const (
	SourceLinkedin JobSource = "linkedin"
	SourceIndeed   JobSource = "indeed"
	SourceCompany  JobSource = "company"
	SourceOther    JobSource = "other"
)

// JobPosting は求人情報を表す。Companyに属する。
type JobPosting struct {
	ID             string
	CompanyID      string
	Title          string
	Location       string
	RemoteType     RemoteType
	PostingURL     string
	Source         JobSource
	DescriptionRaw string
	CreatedAt      time.Time
}

// Application は追跡対象の応募を表す。カンバンボードの中心エンティティ。
// 削除時はReminder/AIOutput/AITask/ActivityEventを同一トランザクションで
// 連鎖削除する。
type Application struct {
	ID                string
	UserID            string
	JobPostingID      string
	Status            ApplicationStatus
	Priority          ApplicationPriority
	Notes             string
	AppliedAt         *time.Time
	NextFollowupAt    *time.Time
	SalaryExpectation *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ApplicationDetail は応募に求人・企業情報を結合したビュー。
// 一覧・詳細APIのレスポンス構築に使用する。
type ApplicationDetail struct {
	Application
	JobPosting JobPosting
	Company    Company
}

// ApplicationPatch は応募の部分更新を表す。
// nilフィールドは変更しない。リクエストに含まれたフィールドのみを
// 明示的にマージする（動的な属性代入は行わない）。
type ApplicationPatch struct {
	Status            *ApplicationStatus
	Priority          *ApplicationPriority
	Notes             *string
	AppliedAt         *time.Time
	NextFollowupAt    *time.Time
	SalaryExpectation *int
}
