package ai

import (
	"encoding/json"
)

// evidenceRef は出力から収集したエビデンス1件を表す。
// どのフィールド由来かを示すfieldを付与する。
type evidenceRef struct {
	Field  string `json:"field"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// ExtractEvidence は検証済み出力を走査し、全エビデンススニペットを収集する。
// トップレベルのオブジェクト値がsource/textを持つ場合と、リスト要素の
// evidenceフィールドの両方を対象とする。見つからない場合は空配列を返す。
func ExtractEvidence(data json.RawMessage) json.RawMessage {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return json.RawMessage(`[]`)
	}

	refs := []evidenceRef{}
	for field, value := range doc {
		switch v := value.(type) {
		case map[string]any:
			if ref, ok := snippetFrom(field, v); ok {
				refs = append(refs, ref)
			}
		case []any:
			for _, item := range v {
				obj, ok := item.(map[string]any)
				if !ok {
					continue
				}
				ev, ok := obj["evidence"].(map[string]any)
				if !ok {
					continue
				}
				if ref, ok := snippetFrom(field, ev); ok {
					refs = append(refs, ref)
				}
			}
		}
	}

	out, err := json.Marshal(refs)
	if err != nil {
		return json.RawMessage(`[]`)
	}
	return out
}

func snippetFrom(field string, obj map[string]any) (evidenceRef, bool) {
	source, _ := obj["source"].(string)
	text, _ := obj["text"].(string)
	if source == "" || text == "" {
		return evidenceRef{}, false
	}
	return evidenceRef{Field: field, Source: source, Text: text}, true
}
