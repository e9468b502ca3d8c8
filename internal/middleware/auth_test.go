package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokeatlas/pokedex/pkg/token"
)

const testSecret = "test-secret"

func newAuthRouter(users UserLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", AuthMiddleware(testSecret, users), func(c *gin.Context) {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func TestAuthMiddlewareSetsUserIDInContext(t *testing.T) {
	r := newAuthRouter(UserLookupFunc(func(id string) bool { return id == "u1" }))

	tok, err := token.GenerateJWT("u1", testSecret, 5)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestAuthMiddlewareRejectsUnknownUser(t *testing.T) {
	r := newAuthRouter(UserLookupFunc(func(string) bool { return false }))

	tok, err := token.GenerateJWT("ghost", testSecret, 5)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newAuthRouter(UserLookupFunc(func(string) bool { return true }))

	for _, header := range []string{"", "NotBearer abc", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetUserIDFromContext(c)
	assert.Error(t, err)

	c.Set(AuthUserIDKey, 42)
	_, err = GetUserIDFromContext(c)
	assert.Error(t, err)

	c.Set(AuthUserIDKey, "u1")
	userID, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}
