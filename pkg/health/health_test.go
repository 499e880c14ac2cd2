package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/lms-progress-server-go/internal/testutil"
	"github.com/mo-amir99/lms-progress-server-go/pkg/logger"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)

	tests := []struct {
		name   string
		cache  Pinger
		status int
		checks map[string]string
	}{
		{"no cache", nil, http.StatusOK, map[string]string{"database": "ok"}},
		{"cache ok", pingerFunc(func(context.Context) error { return nil }), http.StatusOK, map[string]string{"database": "ok", "cache": "ok"}},
		{"cache down", pingerFunc(func(context.Context) error { return errors.New("refused") }), http.StatusServiceUnavailable, map[string]string{"database": "ok", "cache": "unhealthy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(db, tt.cache, logger.Discard())
			r := gin.New()
			r.GET("/ready", h.Ready)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, rec.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.checks, body.Checks)
		})
	}
}
