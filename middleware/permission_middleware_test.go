package middleware

import (
	"net/http"
	"net/http/httptest"
	"researchhub/models"
	"testing"

	"github.com/gin-gonic/gin"
)

func newPermissionRouter(requiredPermission string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/gated", AuthMiddleware(testSecret), RequirePermission(requiredPermission), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequirePermissionGranted(t *testing.T) {
	router := newPermissionRouter(models.PermManageAccounts)
	token := issueToken(t, models.RoleAdmin, []string{models.PermManageAccounts})

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin with permission, got %d", w.Code)
	}
}

func TestRequirePermissionMissing(t *testing.T) {
	router := newPermissionRouter(models.PermManageRepository)
	token := issueToken(t, models.RoleAdmin, []string{models.PermManageAccounts})

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for admin without permission, got %d", w.Code)
	}
}

func TestRequirePermissionSuperadminBypass(t *testing.T) {
	router := newPermissionRouter(models.PermManageRepository)
	token := issueToken(t, models.RoleSuperAdmin, nil)

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected superadmin to bypass permission check, got %d", w.Code)
	}
}

func TestRequirePermissionNonAdminRole(t *testing.T) {
	router := newPermissionRouter(models.PermManageAccounts)

	for _, role := range []string{"student", "instructor"} {
		token := issueToken(t, role, []string{models.PermManageAccounts})

		req := httptest.NewRequest(http.MethodGet, "/gated", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("role %s: expected 403, got %d", role, w.Code)
		}
	}
}
