package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func bindCreateTeamRequest(t *testing.T, body string) (CreateTeamRequest, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var bound CreateTeamRequest
	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		if err := c.ShouldBindJSON(&bound); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return bound, w.Code
}

func TestCreateTeamRequestAllowsEmptyMemberList(t *testing.T) {
	instructorID := primitive.NewObjectID().Hex()

	// A student may work alone under an adviser.
	bound, code := bindCreateTeamRequest(t, `{"teamMembers": [], "instructorId": "`+instructorID+`"}`)
	if code != http.StatusOK {
		t.Fatalf("empty member list should bind, got %d", code)
	}
	if len(bound.TeamMembers) != 0 {
		t.Errorf("expected no members, got %v", bound.TeamMembers)
	}

	if _, code := bindCreateTeamRequest(t, `{"instructorId": "`+instructorID+`"}`); code != http.StatusOK {
		t.Errorf("absent member list should bind, got %d", code)
	}
}

func TestCreateTeamRequestRequiresInstructor(t *testing.T) {
	if _, code := bindCreateTeamRequest(t, `{"teamMembers": []}`); code != http.StatusBadRequest {
		t.Errorf("missing instructorId should be rejected, got %d", code)
	}
}
