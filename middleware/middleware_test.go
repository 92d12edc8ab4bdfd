package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	userRepo "shutterbook/database/repository/user"
	"shutterbook/models"
	"shutterbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(t *testing.T) (*gin.Engine, map[models.Role]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := userRepo.NewMemoryUserRepo()
	tokens := map[models.Role]string{}
	for _, u := range []models.User{
		{ID: "cust-1", Email: "c@example.com", Role: models.RoleCustomer},
		{ID: "admin-1", Email: "a@example.com", Role: models.RoleAdmin},
	} {
		u := u
		require.NoError(t, repo.Create(context.Background(), &u))
		tok, err := utils.GenerateToken(u.ID, u.Email, string(u.Role), time.Hour)
		require.NoError(t, err)
		tokens[u.Role] = tok
	}

	r := gin.New()
	auth := r.Group("/", JWTAuthMiddleware(repo))
	auth.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "role": Role(c)})
	})
	auth.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, tokens
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	r, tokens := newProtectedRouter(t)

	rec := get(r, "/me", tokens[models.RoleCustomer])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"cust-1","role":"customer"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "garbage").Code)

	ghost, err := utils.GenerateToken("ghost", "g@example.com", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", ghost).Code)

	expired, err := utils.GenerateToken("cust-1", "c@example.com", "customer", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", expired).Code)
}

func TestRequireRole(t *testing.T) {
	r, tokens := newProtectedRouter(t)

	assert.Equal(t, http.StatusNoContent, get(r, "/admin", tokens[models.RoleAdmin]).Code)

	rec := get(r, "/admin", tokens[models.RoleCustomer])
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient permission")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("1.1.1.1"))
	assert.Equal(t, http.StatusOK, call("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("1.1.1.1"))
	assert.Equal(t, http.StatusOK, call("2.2.2.2"))
}
