package middleware

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"venuebooking/internal/domain"
)

type MockRoleDirectory struct {
	mock.Mock
}

func (m *MockRoleDirectory) GetRole(ctx context.Context, userID int64) (domain.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Role), args.Error(1)
}

func routerWithUser(userID int64, handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
			c.Set("role", "token-role")
		}
		c.Next()
	})
	router.Use(handlers...)
	router.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("role"))
	})
	return router
}

func serve(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	return w
}

func TestResolveRole_UsesDirectoryRole(t *testing.T) {
	dir := new(MockRoleDirectory)
	dir.On("GetRole", mock.Anything, int64(5)).Return(domain.RoleSupervisor, nil)

	w := serve(routerWithUser(5, ResolveRole(dir), ReviewersOnly()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "supervisor", w.Body.String())
	dir.AssertExpectations(t)
}

func TestResolveRole_UnknownUser(t *testing.T) {
	dir := new(MockRoleDirectory)
	dir.On("GetRole", mock.Anything, int64(5)).Return(domain.Role(""), domain.ErrNotFound)

	w := serve(routerWithUser(5, ResolveRole(dir)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_USER")

	w = serve(routerWithUser(0, ResolveRole(dir)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_RejectsRequesters(t *testing.T) {
	dir := new(MockRoleDirectory)
	dir.On("GetRole", mock.Anything, int64(8)).Return(domain.RoleRequester, nil)

	w := serve(routerWithUser(8, ResolveRole(dir), ReviewersOnly()))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestCORS_PreflightAndOrigins(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://app.example.com/"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), ErrorLogger())
	router.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestErrorLogger_WritesOneLinePerFailedRequest(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	router := gin.New()
	router.Use(RequestID(), ErrorLogger())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("store down"))
		c.Status(http.StatusInternalServerError)
	})
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Empty(t, buf.String())

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Contains(t, buf.String(), "request_error kind=error status=500")
	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.Contains(t, buf.String(), `cause="store down"`)

	buf.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Contains(t, buf.String(), `kind=panic`)
	assert.Contains(t, buf.String(), `cause="boom"`)
	assert.Contains(t, buf.String(), "request_panic")
}
