package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/flashcards-service/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(TracingMiddleware(), LoggingMiddleware(), PrometheusMiddleware())
	r.GET("/items/:id", func(c *gin.Context) {
		logger.FromContext(c.Request.Context()).Info().Msg("handled")
		c.String(http.StatusOK, c.GetString("trace_id"))
	})
	return r
}

func TestLoggingMiddleware_TraceIDSources(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "traceparent",
			headers: map[string]string{TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"},
			want:    "4bf92f3577b34da6a3ce929d0e0e4736",
		},
		{
			name:    "x-trace-id",
			headers: map[string]string{TraceIDHeader: "my-trace"},
			want:    "my-trace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			newRouter().ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Header().Get(TraceIDHeader))
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestLoggingMiddleware_GeneratesTraceID(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))

	id := w.Header().Get(TraceIDHeader)
	assert.Len(t, id, 32)
	assert.Equal(t, id, w.Body.String())
}

func TestPrometheusMiddleware_UsesRouteTemplate(t *testing.T) {
	r := newRouter()
	before := testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "200"))

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	after := testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "200"))
	assert.Equal(t, before+3, after)
}
