package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector(t *testing.T) {
	t.Run("記録したメトリクスが公開される", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c := NewCollector(reg)

		c.RecordAITaskSuccess("parse_jd")
		c.RecordAITaskSuccess("parse_jd")
		c.RecordAITaskFailure("match")
		c.RecordAILatency(1200 * time.Millisecond)
		c.RecordHTTPStatus(200)
		c.RecordHTTPStatus(404)
		c.RecordApplicationCreated()

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		Handler(reg).ServeHTTP(rec, req)

		body := rec.Body.String()

		expectations := []string{
			`applytrack_ai_task_success_total{kind="parse_jd"} 2`,
			`applytrack_ai_task_fail_total{kind="match"} 1`,
			`applytrack_http_status_total{status_code="200"} 1`,
			`applytrack_http_status_total{status_code="404"} 1`,
			`applytrack_applications_created_total 1`,
		}
		for _, want := range expectations {
			if !strings.Contains(body, want) {
				t.Errorf("metrics output missing %q", want)
			}
		}
	})

	t.Run("同一レジストリへの二重登録はpanicする", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic on duplicate registration")
			}
		}()

		reg := prometheus.NewRegistry()
		NewCollector(reg)
		NewCollector(reg)
	})
}
