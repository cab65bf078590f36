package model

import (
	"encoding/json"
	"strings"
	"time"
)

// AIOutputKind はAI機能の種別を表す。
type AIOutputKind string

const (
	KindParseJD       AIOutputKind = "parse_jd"
	KindMatch         AIOutputKind = "match"
	KindTailorCV      AIOutputKind = "tailor_cv"
	KindOutreach      AIOutputKind = "outreach"
	KindInterviewPrep AIOutputKind = "interview_prep"
)

// ParseAIOutputKind はURLパスの種別表記を内部表記に変換する。
// APIは parse-jd / tailor-cv / interview-prep のようにハイフン区切りで
// 公開するため、アンダースコア区切りへ正規化してから解釈する。
func ParseAIOutputKind(s string) AIOutputKind {
	return AIOutputKind(strings.ReplaceAll(s, "-", "_"))
}

// ValidAIOutputKind は種別値が定義済みかを判定する。
func ValidAIOutputKind(k AIOutputKind) bool {
	switch k {
	case KindParseJD, KindMatch, KindTailorCV, KindOutreach, KindInterviewPrep:
		return true
	}
	return false
}

// AIOutput はAI機能1回分の実行結果を表す。書き込み後は不変。
// InputHashはプロンプトに影響した全入力のハッシュ。キャッシュキーとして
// 保存するが、現時点では再計算の抑止には使用しない。
type AIOutput struct {
	ID             string
	ApplicationID  string
	Kind           AIOutputKind
	InputHash      string
	Output         json.RawMessage
	Evidence       json.RawMessage
	Model          string
	LatencySeconds float64
	CreatedAt      time.Time
}

// AITaskStatus はAIタスクの状態を表す。
// 遷移: submitted -> running -> succeeded | failed
type AITaskStatus string

const (
	TaskSubmitted AITaskStatus = "submitted"
	TaskRunning   AITaskStatus = "running"
	TaskSucceeded AITaskStatus = "succeeded"
	TaskFailed    AITaskStatus = "failed"
)

// Terminal はタスクが終端状態に達したかを判定する。
func (s AITaskStatus) Terminal() bool {
	return s == TaskSucceeded || s == TaskFailed
}

// AITask はバックグラウンドAIタスク1件の状態を表す。
// APIはこのレコードをポーリングして結果を返す。
// エラーはタスク結果として記録され、HTTPエラーにはならない。
type AITask struct {
	ID            string
	ApplicationID string
	UserID        string
	Kind          AIOutputKind
	Status        AITaskStatus
	Result        json.RawMessage
	Error         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
