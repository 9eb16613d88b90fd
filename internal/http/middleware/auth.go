package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const requestContextKey = "request_context"

var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrEmptyJWTSecret = errors.New("jwt secret cannot be empty")
)

// Claims is the access token payload issued by the dashboard login.
type Claims struct {
	Role    string    `json:"role"`
	TutorID models.ID `json:"tutor_id"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token. It is used by tests and local tooling;
// production tokens come from the dashboard login.
func IssueToken(secret, subject, role string, tutorID models.ID, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptyJWTSecret
	}
	now := time.Now()
	claims := Claims{
		Role:    role,
		TutorID: tutorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and returns the claims.
func ParseToken(secret, raw string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptyJWTSecret
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Auth requires a valid bearer token and stores the caller's
// domain.RequestContext. A token without tutor_id is only accepted for admins.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, ErrMissingToken)
			return
		}
		claims, err := ParseToken(secret, raw)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		rc := domain.RequestContext{
			Subject: claims.Subject,
			Role:    strings.ToLower(strings.TrimSpace(claims.Role)),
			TutorID: claims.TutorID.String(),
		}
		if rc.Role == "" {
			rc.Role = domain.RoleTutor
		}
		if !rc.IsAdmin() && rc.TutorID == "" {
			abortUnauthorized(c, errors.New("token carries no tutor_id"))
			return
		}
		c.Set(requestContextKey, rc)
		c.Set("userRole", rc.Role)
		c.Next()
	}
}

// AuthOptional trusts X-Tutor-ID and X-Role headers. It is only mounted when
// no JWT secret is configured outside production.
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := domain.RequestContext{
			TutorID: strings.TrimSpace(c.GetHeader("X-Tutor-ID")),
			Role:    strings.ToLower(strings.TrimSpace(c.GetHeader("X-Role"))),
		}
		if rc.Role == "" {
			rc.Role = domain.RoleTutor
		}
		rc.Subject = rc.TutorID
		c.Set(requestContextKey, rc)
		c.Set("userRole", rc.Role)
		c.Next()
	}
}

// GetRequestContext returns the caller set by Auth or AuthOptional.
func GetRequestContext(c *gin.Context) (domain.RequestContext, bool) {
	if c == nil {
		return domain.RequestContext{}, false
	}
	v, ok := c.Get(requestContextKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      "unauthorized",
		"code":       "unauthorized",
		"message":    err.Error(),
		"request_id": GetRequestID(c),
	})
}
