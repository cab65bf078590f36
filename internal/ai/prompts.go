package ai

import (
	"fmt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// evidenceRules は全プロンプト共通のエビデンス規則。
// 主張の捏造を防ぎ、出力を入力テキストへ遡れるようにする。
const evidenceRules = `
Rules you must follow:
1. Every skill or claim MUST include an evidence snippet showing WHERE in the
   source text you found it.  Use {"source": "job_description", "text": "..."} or
   {"source": "profile", "text": "..."}.
2. If you cannot find supporting evidence for something, set evidence to null.
3. Do NOT invent facts — only reference information present in the inputs.
4. The output MUST be valid JSON matching the schema below exactly.
`

// schemaHints は種別ごとの出力JSONの形をモデルに示す。
var schemaHints = map[model.AIOutputKind]string{
	model.KindParseJD: `{
  "role_title": "string (required)",
  "seniority": "string or empty",
  "must_have_skills": [{"name": "string", "evidence": {"source": "job_description", "text": "string"} | null}],
  "nice_to_have_skills": [{"name": "string", "evidence": {...} | null}],
  "responsibilities": ["string"],
  "keywords": ["string"],
  "questions_to_ask": ["string"]
}`,
	model.KindMatch: `{
  "match_score": "integer 0-100",
  "strong_matches": [{"item": "string", "evidence": {"source": "profile", "text": "string"} | null}],
  "gaps": [{"item": "string", "evidence": {...} | null}],
  "recommended_projects": ["string"],
  "recommended_experience": ["string"]
}`,
	model.KindTailorCV: `{
  "tailored_summary": "string",
  "bullet_suggestions": [{"bullet": "string", "evidence": {"source": "profile", "text": "string"} | null}],
  "top_keywords": ["string"],
  "warnings": ["string"]
}`,
	model.KindOutreach: `{
  "linkedin_message": "string",
  "email_message": "string"
}`,
	model.KindInterviewPrep: `{
  "likely_questions": ["string"],
  "checklist": ["string"],
  "suggested_stories": [{"question": "string", "suggested_answer": "string", "evidence": {"source": "profile", "text": "string"} | null}]
}`,
}

// systemRoles は種別ごとのシステムプロンプト冒頭。
var systemRoles = map[model.AIOutputKind]string{
	model.KindParseJD: "You are a job-description parser.  Extract structured information " +
		"from the provided job description.",
	model.KindMatch: "You are a career-match analyst.  Compare the candidate profile " +
		"against the job description and evaluate the fit.",
	model.KindTailorCV: "You are a resume-tailoring assistant.  Suggest a tailored summary, " +
		"bullet points, and keywords based on the candidate profile and job description.",
	model.KindOutreach: "You are a professional outreach writer.  Draft a LinkedIn message " +
		"and an email to reach out about the role.  Keep it concise and genuine — " +
		"avoid sounding generic.",
	model.KindInterviewPrep: "You are an interview-preparation coach.  Generate likely interview " +
		"questions, a preparation checklist, and suggested STAR stories the candidate can use.",
}

// NeedsProfile は指定の種別がプロフィール入力を必要とするかを返す。
// 求人票パースのみ求人票だけで完結する。
func NeedsProfile(kind model.AIOutputKind) bool {
	return kind != model.KindParseJD
}

// BuildPrompt は種別に応じたシステム・ユーザープロンプトを構築する。
// profileJSONはNeedsProfileがtrueの種別でのみ使用する。
func BuildPrompt(kind model.AIOutputKind, jdText, profileJSON string) (system, user string, err error) {
	role, ok := systemRoles[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown ai output kind: %s", kind)
	}

	system = role + "\n" + evidenceRules + "\nJSON schema:\n" + schemaHints[kind]

	if kind == model.KindParseJD {
		user = "Parse this job description:\n\n" + jdText
		return system, user, nil
	}

	user = "[JOB DESCRIPTION]\n" + jdText + "\n\n[CANDIDATE PROFILE]\n" + profileJSON
	return system, user, nil
}
