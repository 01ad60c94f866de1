package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/accreditrack/internal/metrics"
	"github.com/jonathan/accreditrack/internal/workflow"
)

func TestMiddleware_RecoveredPanicIsCounted(t *testing.T) {
	ts := setupTestServer(t, testServerConfig(), workflow.Config{})

	r := chi.NewRouter()
	ts.server.useMiddleware(r)
	r.Get("/explode", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/explode", "500")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
