package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(loginAttempts.WithLabelValues("success"))
	RecordLogin("success")
	assert.Equal(t, before+1, testutil.ToFloat64(loginAttempts.WithLabelValues("success")))
}

func TestRecordAsset(t *testing.T) {
	before := testutil.ToFloat64(assetOperations.WithLabelValues("save", "error"))
	RecordAsset("save", errors.New("disk full"))
	assert.Equal(t, before+1, testutil.ToFloat64(assetOperations.WithLabelValues("save", "error")))
}

func TestRequestStartedAndHandler(t *testing.T) {
	done := RequestStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))
	done("get", "/api/students", http.StatusOK)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ssis_http_requests_total{method="GET",route="/api/students",status="200"}`)
}
