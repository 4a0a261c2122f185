package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObservePageDuration(20*time.Millisecond, ResultSuccess)
	pr.IncPageResult(ResultSuccess)
	pr.IncPageResult(ResultSuccess)
	pr.IncPageResult(ResultFailed)
	pr.IncInFlight()
	pr.IncInFlight()
	pr.IncInFlight()
	pr.DecInFlight()
	pr.SetConcurrency(32)
	pr.ObserveGenerateDuration(time.Second, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.pageResults.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.pageResults.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.inFlight))
	assert.Equal(t, 32.0, testutil.ToFloat64(pr.concurrency))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorderNilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncPageResult(ResultSuccess)
		pr.IncInFlight()
		pr.DecInFlight()
		pr.ObserveGenerateDuration(time.Second, false)
	})
}

func TestPrometheusRecorderExport(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncPageResult(ResultSuccess)

	file := filepath.Join(t.TempDir(), "ssg.prom")
	require.NoError(t, pr.WriteTextfile(file))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "docusaurus_ssg_page_results_total")

	rec := httptest.NewRecorder()
	pr.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "docusaurus_ssg_page_results_total"))
}
