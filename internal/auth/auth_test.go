package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndValidate(t *testing.T) {
	m := NewManager("test-secret", "suncoast")
	token, err := m.Issue("ops@suncoast.example", RoleAdmin, time.Minute)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@suncoast.example", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "suncoast", claims.Issuer)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("test-secret", "suncoast")

	expired, err := m.Issue("x", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	_, err = m.Validate(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other, err := NewManager("other-secret", "suncoast").Issue("x", RoleAdmin, time.Minute)
	require.NoError(t, err)
	_, err = m.Validate(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := NewManager("test-secret", "elsewhere").Issue("x", RoleAdmin, time.Minute)
	require.NoError(t, err)
	_, err = m.Validate(wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager("test-secret", "suncoast")
	r := gin.New()
	r.GET("/admin", m.Middleware(), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, Subject(c))
	})

	admin, _ := m.Issue("ops", RoleAdmin, time.Minute)
	staff, _ := m.Issue("clerk", "staff", time.Minute)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + staff, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "ops", w.Body.String())
			}
		})
	}
}

func TestManager_EmptySecretRejectsForgedToken(t *testing.T) {
	m := NewManager("", "suncoast")

	_, err := m.Issue("ops", RoleAdmin, time.Minute)
	assert.ErrorIs(t, err, ErrNoSecret)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "suncoast",
			Subject:   "mallory",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(""))
	require.NoError(t, err)

	_, err = m.Validate(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", m.Middleware(), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
