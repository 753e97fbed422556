package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventbook/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTokenSource struct {
	users map[string]*models.User
}

func (f *fakeTokenSource) GetByToken(ctx context.Context, token string) (*models.User, error) {
	return f.users[token], nil
}

func authRouter(users TokenSource, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(users, nil)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := UserIDFromContext(c.Request.Context())
		role, _ := RoleFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
	})
	router.GET("/protected", handlers...)
	return router
}

func doAuth(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	router := authRouter(&fakeTokenSource{})
	w := doAuth(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	router := authRouter(&fakeTokenSource{})
	w := doAuth(router, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthUnknownToken(t *testing.T) {
	router := authRouter(&fakeTokenSource{users: map[string]*models.User{}})
	w := doAuth(router, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInactiveUser(t *testing.T) {
	source := &fakeTokenSource{users: map[string]*models.User{
		"tok": {ID: 7, Role: "user", IsActive: false},
	}}
	router := authRouter(source)
	w := doAuth(router, "Bearer tok")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthResolvesIdentity(t *testing.T) {
	source := &fakeTokenSource{users: map[string]*models.User{
		"tok": {ID: 7, Role: "user", IsActive: true},
	}}
	router := authRouter(source)

	w := doAuth(router, "Bearer tok")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":7,"role":"user"}`, w.Body.String())
}

func TestAdminOnlyRejectsUser(t *testing.T) {
	source := &fakeTokenSource{users: map[string]*models.User{
		"tok": {ID: 7, Role: "user", IsActive: true},
	}}
	router := authRouter(source, AdminOnly())

	w := doAuth(router, "Bearer tok")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	source := &fakeTokenSource{users: map[string]*models.User{
		"tok": {ID: 1, Role: "admin", IsActive: true},
	}}
	router := authRouter(source, AdminOnly())

	w := doAuth(router, "Bearer tok")
	assert.Equal(t, http.StatusOK, w.Code)
}
