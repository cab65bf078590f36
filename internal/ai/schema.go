// Package ai はAI支援ドキュメント生成のパイプラインを提供する。
//
// 5種類のAI機能（求人票パース、マッチ度分析、CV最適化、アウトリーチ文面、
// 面接準備）はすべて構造化JSONを返す。自由文のAI応答は許可せず、
// 種別ごとのスキーマで厳密に検証する。主張にはエビデンススニペットを
// 付与し、求人票またはプロフィールの該当箇所へ遡れるようにする。
package ai

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// EvidenceSnippet は主張の根拠となる原文の抜粋を表す。
// Sourceはjob_descriptionまたはprofileのいずれか。
type EvidenceSnippet struct {
	Source string `json:"source" validate:"required,oneof=job_description profile"`
	Text   string `json:"text" validate:"required"`
}

// SkillItem は求人票から抽出したスキル1件を表す。
// 根拠が見つからない場合はEvidenceはnullになる。
type SkillItem struct {
	Name     string           `json:"name" validate:"required"`
	Evidence *EvidenceSnippet `json:"evidence"`
}

// MatchItem はマッチ度分析における一致・不足項目を表す。
type MatchItem struct {
	Item     string           `json:"item" validate:"required"`
	Evidence *EvidenceSnippet `json:"evidence"`
}

// CVBullet はCV最適化で提案する箇条書き1件を表す。
type CVBullet struct {
	Bullet   string           `json:"bullet" validate:"required"`
	Evidence *EvidenceSnippet `json:"evidence"`
}

// StoryItem は面接準備で提案するSTARストーリーを表す。
type StoryItem struct {
	Question        string           `json:"question" validate:"required"`
	SuggestedAnswer string           `json:"suggested_answer" validate:"required"`
	Evidence        *EvidenceSnippet `json:"evidence"`
}

// ParsedJD は求人票パース（parse_jd）の結果を表す。
type ParsedJD struct {
	RoleTitle        string      `json:"role_title" validate:"required"`
	Seniority        string      `json:"seniority"`
	MustHaveSkills   []SkillItem `json:"must_have_skills" validate:"dive"`
	NiceToHaveSkills []SkillItem `json:"nice_to_have_skills" validate:"dive"`
	Responsibilities []string    `json:"responsibilities"`
	Keywords         []string    `json:"keywords"`
	QuestionsToAsk   []string    `json:"questions_to_ask"`
}

// MatchResult はマッチ度分析（match）の結果を表す。
// MatchScoreは0〜100の整数。
type MatchResult struct {
	MatchScore            int         `json:"match_score" validate:"gte=0,lte=100"`
	StrongMatches         []MatchItem `json:"strong_matches" validate:"dive"`
	Gaps                  []MatchItem `json:"gaps" validate:"dive"`
	RecommendedProjects   []string    `json:"recommended_projects"`
	RecommendedExperience []string    `json:"recommended_experience"`
}

// TailoredCV はCV最適化（tailor_cv）の結果を表す。
type TailoredCV struct {
	TailoredSummary   string     `json:"tailored_summary"`
	BulletSuggestions []CVBullet `json:"bullet_suggestions" validate:"dive"`
	TopKeywords       []string   `json:"top_keywords"`
	Warnings          []string   `json:"warnings"`
}

// OutreachResult はアウトリーチ文面（outreach）の結果を表す。
type OutreachResult struct {
	LinkedinMessage string `json:"linkedin_message"`
	EmailMessage    string `json:"email_message"`
}

// InterviewPrepResult は面接準備（interview_prep）の結果を表す。
type InterviewPrepResult struct {
	LikelyQuestions  []string    `json:"likely_questions"`
	Checklist        []string    `json:"checklist"`
	SuggestedStories []StoryItem `json:"suggested_stories" validate:"dive"`
}

var validate = validator.New()

// ValidateOutput はモデルの応答を種別ごとのスキーマで検証し、
// 正規化したJSONを返す。未知のフィールドは落とし、必須フィールドの
// 欠落や範囲外の値はエラーとする。
func ValidateOutput(kind model.AIOutputKind, raw json.RawMessage) (json.RawMessage, error) {
	var target any
	switch kind {
	case model.KindParseJD:
		target = &ParsedJD{}
	case model.KindMatch:
		target = &MatchResult{}
	case model.KindTailorCV:
		target = &TailoredCV{}
	case model.KindOutreach:
		target = &OutreachResult{}
	case model.KindInterviewPrep:
		target = &InterviewPrepResult{}
	default:
		return nil, fmt.Errorf("unknown ai output kind: %s", kind)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	if err := validate.Struct(target); err != nil {
		return nil, fmt.Errorf("model response failed schema validation: %w", err)
	}

	normalized, err := json.Marshal(target)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal validated output: %w", err)
	}
	return normalized, nil
}
