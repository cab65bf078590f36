package ai

import (
	"encoding/json"
	"testing"
)

func TestExtractEvidence(t *testing.T) {
	t.Run("リスト要素のevidenceを収集する", func(t *testing.T) {
		data := json.RawMessage(`{
			"role_title": "Backend Engineer",
			"must_have_skills": [
				{"name": "Go", "evidence": {"source": "job_description", "text": "3+ years Go"}},
				{"name": "Docker", "evidence": null}
			]
		}`)

		var refs []evidenceRef
		if err := json.Unmarshal(ExtractEvidence(data), &refs); err != nil {
			t.Fatalf("failed to unmarshal evidence: %v", err)
		}

		if len(refs) != 1 {
			t.Fatalf("len(refs) = %d, want 1", len(refs))
		}
		if refs[0].Field != "must_have_skills" {
			t.Errorf("Field = %s, want must_have_skills", refs[0].Field)
		}
		if refs[0].Source != "job_description" || refs[0].Text != "3+ years Go" {
			t.Errorf("unexpected snippet: %+v", refs[0])
		}
	})

	t.Run("トップレベルのスニペットも収集する", func(t *testing.T) {
		data := json.RawMessage(`{
			"summary_evidence": {"source": "profile", "text": "5 years of Go"}
		}`)

		var refs []evidenceRef
		if err := json.Unmarshal(ExtractEvidence(data), &refs); err != nil {
			t.Fatalf("failed to unmarshal evidence: %v", err)
		}

		if len(refs) != 1 || refs[0].Field != "summary_evidence" {
			t.Errorf("unexpected refs: %+v", refs)
		}
	})

	t.Run("エビデンスが無い出力には空配列を返す", func(t *testing.T) {
		data := json.RawMessage(`{"linkedin_message": "Hi", "email_message": "Hello"}`)

		got := string(ExtractEvidence(data))
		if got != "[]" {
			t.Errorf("ExtractEvidence() = %s, want []", got)
		}
	})

	t.Run("不正なJSONには空配列を返す", func(t *testing.T) {
		got := string(ExtractEvidence(json.RawMessage(`not json`)))
		if got != "[]" {
			t.Errorf("ExtractEvidence() = %s, want []", got)
		}
	})
}
