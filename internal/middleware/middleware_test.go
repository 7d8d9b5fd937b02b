package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	router := gin.New()
	router.Use(SessionRole(models.RoleStudent))
	router.POST("/classes", RequireRoles(models.RoleProfessor), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	router.POST("/enrollments", RequireRoles(models.RoleStudent), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/classes", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/enrollments", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRequireRolesWithoutSession(t *testing.T) {
	router := gin.New()
	router.GET("/x", RequireRoles(models.RoleProfessor), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResponseMeta(t *testing.T) {
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/x", func(c *gin.Context) {
		SetCacheHit(c, true)
		SetMeta(c, "stats_source", "cache")
		c.JSON(http.StatusOK, ExtractMeta(c))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Equal(t, "cache", meta["stats_source"])
	assert.Contains(t, meta, "processing_time_ms")
}

type recordingObserver struct {
	path   string
	status int
}

func (r *recordingObserver) ObserveHTTPRequest(_ string, path string, status int, _ time.Duration) {
	r.path = path
	r.status = status
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	obs := &recordingObserver{}
	router := gin.New()
	router.Use(Metrics(obs))
	router.GET("/classes/:classId", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/classes/abc", nil))
	assert.Equal(t, "/classes/:classId", obs.path)
	assert.Equal(t, http.StatusNoContent, obs.status)
}
