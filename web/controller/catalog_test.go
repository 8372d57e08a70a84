package controller

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/MindDevsDavid/DragonScan/database"
	"github.com/MindDevsDavid/DragonScan/logger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions("dragonscan", cookie.NewStore([]byte("test-secret"))))
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", "/")
		c.Next()
	})
	return engine
}

func setup() {
	logger.InitLogger(logging.ERROR)
	os.Remove("test.db")
	database.InitDB("test.db")
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func TestHealthEndpoint(t *testing.T) {
	setup()
	defer teardown()

	engine := newTestEngine()
	NewCatalogController(engine.Group("/"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestReaderRequiresLogin(t *testing.T) {
	setup()
	defer teardown()

	engine := newTestEngine()
	NewCatalogController(engine.Group("/"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leer/1/1", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "login")
	// The original URL comes along so the login can bounce back.
	assert.Contains(t, w.Header().Get("Location"), "next=")
}

func TestSeriesDetailUnknownId(t *testing.T) {
	setup()
	defer teardown()

	engine := newTestEngine()
	NewCatalogController(engine.Group("/"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/series/999", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRequiresAdminRole(t *testing.T) {
	setup()
	defer teardown()

	engine := newTestEngine()
	NewAdminController(engine.Group("/"), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/status", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
