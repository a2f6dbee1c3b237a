package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	motherHandler "github.com/matricare/mcare-api/internal/handler/mother"
	"github.com/matricare/mcare-api/internal/middleware"
	"github.com/matricare/mcare-api/pkg/auth"
)

// stubHandler registers a single GET route that reports 200, so tests
// can tell whether a request made it past the middleware chain.
type stubHandler struct {
	path string
}

func (h *stubHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET(h.path, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

var (
	setupOnce  sync.Once
	testEngine *gin.Engine
	testJWT    auth.JWTService
)

// testRouter builds one shared router; prometheus collectors register
// globally, so NewRouter must not run per test.
func testRouter(t *testing.T) (*gin.Engine, auth.JWTService) {
	t.Helper()
	setupOnce.Do(func() {
		testJWT = auth.NewJWTService("test-secret", time.Hour)
		authMw := middleware.NewAuthMiddleware(testJWT)

		// The mother handler is the real one; none of these tests get
		// past authentication or request binding, so it never touches
		// its service.
		motherH := motherHandler.NewHandler(nil, nil)

		r := NewRouter(
			authMw,
			&stubHandler{path: "/health/live"},
			&stubHandler{path: "/auth/ping"},
			motherH,
			&stubHandler{path: "/users"},
			&stubHandler{path: "/meals/ping"},
			&stubHandler{path: "/plans/ping"},
			&stubHandler{path: "/queries/ping"},
			&stubHandler{path: "/alerts/ping"},
			&stubHandler{path: "/notifications/ping"},
			&stubHandler{path: "/audit/ping"},
			Config{MetricsPrefix: "router_test"},
		)
		r.Setup()
		testEngine = r.Engine()
	})
	return testEngine, testJWT
}

func doRequest(engine *gin.Engine, method, path, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestMotherRecordRoutesRequireToken(t *testing.T) {
	engine, _ := testRouter(t)

	id := uuid.New().String()
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/mothers"},
		{http.MethodGet, "/api/mothers/" + id},
		{http.MethodPut, "/api/mothers/" + id + "/caregivers"},
		{http.MethodPut, "/api/mothers/" + id + "/risk-status"},
		{http.MethodDelete, "/api/mothers/" + id},
	}

	for _, r := range routes {
		w := doRequest(engine, r.method, r.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s without token", r.method, r.path)
	}
}

func TestMotherRegistrationIsPublic(t *testing.T) {
	engine, _ := testRouter(t)

	// An empty body fails request binding, not authentication: the
	// route is reachable without a token.
	w := doRequest(engine, http.MethodPost, "/api/mothers", "", "{}")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRouteAcceptsValidToken(t *testing.T) {
	engine, jwtSvc := testRouter(t)

	w := doRequest(engine, http.MethodGet, "/api/users", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwtSvc.GenerateToken(uuid.New(), "+919876543210", "admin")
	require.NoError(t, err)

	w = doRequest(engine, http.MethodGet, "/api/users", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
