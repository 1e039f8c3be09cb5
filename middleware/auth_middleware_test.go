package middleware

import (
	"net/http"
	"net/http/httptest"
	"researchhub/utils"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "middleware-test-secret"

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.MustGet("userIdStr"),
			"role":   c.MustGet("role"),
		})
	})
	return router
}

func issueToken(t *testing.T, role string, permissions []string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(primitive.NewObjectID(), "user@university.edu", "Test User", role, permissions, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}
	return token
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-bearer header, got %d", w.Code)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", w.Code)
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := newAuthRouter(t)
	token := issueToken(t, "student", nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/instructor-only", AuthMiddleware(testSecret), RequireRole("instructor"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		role     string
		wantCode int
	}{
		{"instructor", http.StatusOK},
		{"student", http.StatusForbidden},
		{"admin", http.StatusForbidden},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/instructor-only", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, tt.role, nil))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tt.wantCode {
			t.Errorf("role %s: expected %d, got %d", tt.role, tt.wantCode, w.Code)
		}
	}
}

func TestRequireRoleAcceptsAnyListed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/admin-area", AuthMiddleware(testSecret), RequireRole("admin", "superadmin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, role := range []string{"admin", "superadmin"} {
		req := httptest.NewRequest(http.MethodGet, "/admin-area", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, role, nil))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("role %s: expected 200, got %d", role, w.Code)
		}
	}
}
