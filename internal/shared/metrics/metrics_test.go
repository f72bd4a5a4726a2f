package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func TestHandlerExposesRegisteredCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	Register(reg)
	SummariesGenerated.WithLabelValues("extractive").Inc()

	router := gin.New()
	router.GET("/metrics", Handler(reg))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `docsum_summaries_generated_total{source="extractive"}`) {
		t.Fatalf("expected summaries counter in output, got %s", resp.Body.String())
	}
}

func TestRegisterTwiceOnSeparateRegistries(t *testing.T) {
	Register(prometheus.NewRegistry())
	Register(prometheus.NewRegistry())
}
