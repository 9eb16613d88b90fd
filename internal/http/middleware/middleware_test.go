package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"
	"sessiondesk/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		rc, _ := GetRequestContext(c)
		c.JSON(http.StatusOK, gin.H{
			"role":       rc.Role,
			"tutor":      rc.TutorID,
			"request_id": GetRequestID(c),
			"ctx_id":     utils.RequestIDFrom(c.Request.Context()),
		})
	})
	return r
}

func get(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDPropagatesOrGenerates(t *testing.T) {
	r := newEngine(RequestID())

	w := get(r, map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"ctx_id":"abc-123"`)

	w = get(r, nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r := newEngine(RequestID(), Auth("s3cret"))
	tok, err := IssueToken("s3cret", "u1", "Tutor", models.ID("42"), time.Minute)
	require.NoError(t, err)

	w := get(r, map[string]string{"Authorization": "Bearer " + tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"tutor"`)
	assert.Contains(t, w.Body.String(), `"tutor":"42"`)
}

func TestAuthRejects(t *testing.T) {
	r := newEngine(Auth("s3cret"))

	wrongKey, err := IssueToken("other", "u1", "tutor", models.ID("1"), time.Minute)
	require.NoError(t, err)
	expired, err := IssueToken("s3cret", "u1", "tutor", models.ID("1"), -time.Minute)
	require.NoError(t, err)
	noTutor, err := IssueToken("s3cret", "u1", "tutor", models.ID(""), time.Minute)
	require.NoError(t, err)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "tutor_id": 1}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":   "",
		"scheme":    "Basic abc",
		"wrong key": "Bearer " + wrongKey,
		"expired":   "Bearer " + expired,
		"no tutor":  "Bearer " + noTutor,
		"no exp":    "Bearer " + noExp,
	} {
		w := get(r, map[string]string{"Authorization": header})
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestIssueTokenNeedsSecret(t *testing.T) {
	_, err := IssueToken("", "u1", domain.RoleAdmin, "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestRequireRoles(t *testing.T) {
	r := newEngine(AuthOptional(), RequireRoles("admin"))

	assert.Equal(t, http.StatusForbidden, get(r, map[string]string{"X-Tutor-ID": "1"}).Code)
	assert.Equal(t, http.StatusOK, get(r, map[string]string{"X-Role": "Admin"}).Code)

	bare := newEngine(RequireRoles("admin"))
	assert.Equal(t, http.StatusUnauthorized, get(bare, nil).Code)
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	r := newEngine(RateLimit(0.001, 2))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, nil).Code)

	open := newEngine(RateLimit(0, 0))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(open, nil).Code)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:5173"}))

	w := get(r, map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, map[string]string{"Origin": "http://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
