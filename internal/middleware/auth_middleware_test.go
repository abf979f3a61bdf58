package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/pkg/auth"
)

func newGateRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService, err := auth.NewJWTService("gate-test-secret", time.Hour, "kuiz-test")
	require.NoError(t, err)
	m := NewAuthMiddleware(jwtService)

	r := gin.New()
	echo := func(c *gin.Context) {
		claims := ClaimFromContext(c)
		if claims == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"account_id": claims.AccountID, "type": claims.Type})
	}
	r.GET("/admin", m.Gate(RoleAccess(entity.RoleAdmin)), echo)
	r.GET("/any", m.Gate(AuthenticatedAccess()), echo)
	r.GET("/public", m.Gate(PublicAccess()), echo)
	r.GET("/ws", m.Gate(AccessRule{TokenQuery: "token"}), echo)
	r.GET("/nobody", m.Gate(RoleAccess()), echo)
	return r, jwtService
}

func bearer(t *testing.T, svc *auth.JWTService, id uint, role entity.Role) string {
	t.Helper()
	token, err := svc.GenerateToken(id, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestGate(t *testing.T) {
	r, svc := newGateRouter(t)
	adminToken := bearer(t, svc, 1, entity.RoleAdmin)
	userToken := bearer(t, svc, 2, entity.RoleUser)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{name: "admin route without token", path: "/admin", wantStatus: http.StatusUnauthorized, wantType: ErrorTypeTokenMissing},
		{name: "admin route malformed header", path: "/admin", header: "Token abc", wantStatus: http.StatusUnauthorized, wantType: ErrorTypeTokenFormat},
		{name: "admin route garbage token", path: "/admin", header: "Bearer abc", wantStatus: http.StatusUnauthorized, wantType: ErrorTypeTokenInvalid},
		{name: "admin route with user token", path: "/admin", header: userToken, wantStatus: http.StatusForbidden, wantType: ErrorTypeRoleForbidden},
		{name: "admin route with admin token", path: "/admin", header: adminToken, wantStatus: http.StatusOK, wantBody: `"type":"ADMIN"`},
		{name: "authenticated route with user token", path: "/any", header: userToken, wantStatus: http.StatusOK, wantBody: `"account_id":2`},
		{name: "authenticated route without token", path: "/any", wantStatus: http.StatusUnauthorized, wantType: ErrorTypeTokenMissing},
		{name: "public route anonymous", path: "/public", wantStatus: http.StatusOK, wantBody: `"anonymous":true`},
		{name: "public route with bad token stays anonymous", path: "/public", header: "Bearer abc", wantStatus: http.StatusOK, wantBody: `"anonymous":true`},
		{name: "public route attaches claim", path: "/public", header: userToken, wantStatus: http.StatusOK, wantBody: `"type":"USER"`},
		{name: "empty role list forbids everyone", path: "/nobody", header: adminToken, wantStatus: http.StatusForbidden, wantType: ErrorTypeRoleForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			// Act
			r.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code, "неверный статус ответа")
			if tt.wantType != "" {
				assert.Contains(t, w.Body.String(), `"error_type":"`+tt.wantType+`"`)
			}
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestGate_TokenFromQuery(t *testing.T) {
	r, svc := newGateRouter(t)
	token, err := svc.GenerateToken(3, entity.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "query-параметр разрешен только для маршрутов с TokenQuery")
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "123e4567-e89b-12d3-a456-426614174000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", w.Header().Get(RequestIDHeader))
}

func TestExtractUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/quizzes/:id", ExtractUintParam("id", "quizID"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.MustGet("quizID").(uint)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quizzes/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quizzes/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
