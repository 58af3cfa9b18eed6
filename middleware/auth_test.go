package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cloudvorkala/SPEED/policy"
)

func routerWith(identity *policy.Identity, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/guarded", func(c *gin.Context) {
		if identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}, RequireRole(roles...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		identity *policy.Identity
		roles    []string
		want     int
	}{
		{"no identity", nil, []string{policy.Moderator}, http.StatusUnauthorized},
		{"matching flag", &policy.Identity{IsModerator: true}, []string{policy.Moderator}, http.StatusNoContent},
		{"role names ignore case", &policy.Identity{IsAnalyst: true}, []string{"ANALYST"}, http.StatusNoContent},
		{"legacy role string", &policy.Identity{Role: "MODERATOR"}, []string{policy.Moderator}, http.StatusNoContent},
		{"any of several", &policy.Identity{IsAdmin: true}, []string{policy.Moderator, policy.Admin}, http.StatusNoContent},
		{"admin is not analyst", &policy.Identity{IsAdmin: true}, []string{policy.Analyst}, http.StatusForbidden},
		{"no requirement", &policy.Identity{}, nil, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			routerWith(tt.identity, tt.roles...).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get(requestIDHeader))
		})
	}
}
