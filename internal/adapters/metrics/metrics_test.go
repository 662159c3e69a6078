package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NormalizerCounters(t *testing.T) {
	r := NewRegistry()

	r.CacheHit("MAD")
	r.CacheHit("MAD")
	r.CacheMiss("MAD")
	r.SourceError("http_feed")
	r.ConversionDegraded("missing_rate")
	r.PersistFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.rateCacheLookups.WithLabelValues("MAD", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rateCacheLookups.WithLabelValues("MAD", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rateSourceErrors.WithLabelValues("http_feed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.conversionsDegraded.WithLabelValues("missing_rate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ratePersistFailures))
}

func TestRegistry_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRegistry()

	router := gin.New()
	router.Use(r.Middleware())
	router.GET("/api/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(r.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items/42", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequestsTotal.WithLabelValues("/api/items/:id", "GET", "204")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "erp_http_requests_total"))
}
