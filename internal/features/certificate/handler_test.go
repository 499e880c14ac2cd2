package certificate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/lms-progress-server-go/internal/middleware"
	"github.com/mo-amir99/lms-progress-server-go/pkg/logger"
	"github.com/mo-amir99/lms-progress-server-go/pkg/pagination"
	"github.com/mo-amir99/lms-progress-server-go/pkg/request"
)

func TestHandlerVerifyIsPublic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer, _, _, course := newIssuer(t, nil)
	user := uuid.New()

	cert, _, err := issuer.IssueIfAbsent(context.Background(), user, course)
	require.NoError(t, err)

	denyAll := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	r := gin.New()
	r.Use(request.Handler(logger.Discard()))
	RegisterRoutes(r.Group("/api"), NewHandler(issuer, staticCourses{course: "Go Basics"}, logger.Discard()), denyAll)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/certificates/verify/"+cert.VerificationCode, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data verification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Valid)
	assert.Equal(t, "Go Basics", body.Data.CourseName)
	assert.Equal(t, cert.ID, body.Data.Certificate.ID)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/certificates/verify/CERT-UNKNOWN", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/certificates", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer, _, _, course := newIssuer(t, nil)
	user := uuid.New()

	_, _, err := issuer.IssueIfAbsent(context.Background(), user, course)
	require.NoError(t, err)
	_, _, err = issuer.IssueIfAbsent(context.Background(), uuid.New(), course)
	require.NoError(t, err)

	auth := func(c *gin.Context) {
		middleware.SetUserID(c, user)
		c.Next()
	}
	r := gin.New()
	r.Use(request.Handler(logger.Discard()))
	RegisterRoutes(r.Group("/api"), NewHandler(issuer, staticCourses{}, logger.Discard()), auth)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/certificates", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []Certificate       `json:"data"`
		Pagination pagination.Metadata `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, user, body.Data[0].UserID)
	assert.EqualValues(t, 1, body.Pagination.TotalItems)
	assert.Equal(t, 1, body.Pagination.TotalPages)
}
