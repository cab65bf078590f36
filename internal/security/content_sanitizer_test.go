package security

import (
	"strings"
	"testing"
)

func TestContentSanitizer(t *testing.T) {
	sanitizer := NewContentSanitizer()

	t.Run("scriptタグを除去する", func(t *testing.T) {
		input := `<p>応募要件</p><script>alert("xss")</script>`
		got := sanitizer.Sanitize(input)

		if strings.Contains(got, "<script") {
			t.Errorf("script tag was not removed: %s", got)
		}
		if !strings.Contains(got, "<p>応募要件</p>") {
			t.Errorf("allowed tag was removed: %s", got)
		}
	})

	t.Run("onイベント属性を除去する", func(t *testing.T) {
		input := `<p onclick="steal()">勤務地: 東京</p>`
		got := sanitizer.Sanitize(input)

		if strings.Contains(got, "onclick") {
			t.Errorf("on* attribute was not removed: %s", got)
		}
	})

	t.Run("iframeを除去する", func(t *testing.T) {
		input := `<ul><li>Go経験3年</li></ul><iframe src="https://evil.example"></iframe>`
		got := sanitizer.Sanitize(input)

		if strings.Contains(got, "<iframe") {
			t.Errorf("iframe tag was not removed: %s", got)
		}
		if !strings.Contains(got, "<li>Go経験3年</li>") {
			t.Errorf("allowed list tag was removed: %s", got)
		}
	})

	t.Run("リンクにrel属性を付与する", func(t *testing.T) {
		input := `<a href="https://example.com/careers">採用ページ</a>`
		got := sanitizer.Sanitize(input)

		if !strings.Contains(got, `rel=`) || !strings.Contains(got, "noopener") {
			t.Errorf("rel noopener was not added: %s", got)
		}
		if !strings.Contains(got, `target="_blank"`) {
			t.Errorf("target=_blank was not added: %s", got)
		}
	})

	t.Run("空文字列には空文字列を返す", func(t *testing.T) {
		if got := sanitizer.Sanitize(""); got != "" {
			t.Errorf("Sanitize(\"\") = %q, want \"\"", got)
		}
	})

	t.Run("同一入力に対して冪等", func(t *testing.T) {
		input := `<p>職務内容</p><blockquote>リモート可</blockquote>`
		first := sanitizer.Sanitize(input)
		second := sanitizer.Sanitize(first)

		if first != second {
			t.Errorf("Sanitize is not idempotent: %q != %q", first, second)
		}
	})
}
