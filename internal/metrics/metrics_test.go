package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// 测试内容：验证 /metrics 暴露业务指标。
func TestRegister_ExposesMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	UploadsTotal.WithLabelValues("ok").Inc()

	r := gin.New()
	Register(r, "/metrics")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "spectra_uploads_total") {
		t.Fatalf("期望响应包含 spectra_uploads_total")
	}
}

// 测试内容：验证计数器按标签累加。
func TestCounters_IncrementByLabel(t *testing.T) {
	before := testutil.ToFloat64(BlobOperationsTotal.WithLabelValues("put", "error"))
	BlobOperationsTotal.WithLabelValues("put", Result(errors.New("boom"))).Inc()
	after := testutil.ToFloat64(BlobOperationsTotal.WithLabelValues("put", "error"))

	if after-before != 1 {
		t.Fatalf("期望计数增加 1，实际增加 %v", after-before)
	}
	if Result(nil) != "ok" {
		t.Fatalf("期望 nil 错误对应 ok")
	}
}
