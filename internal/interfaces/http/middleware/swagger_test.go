package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Honest-88/pos-sample/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveSwagger(cfg SwaggerConfig, jwtMW gin.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwtMW), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	t.Run("disabled returns 404", func(t *testing.T) {
		w := serveSwagger(SwaggerConfig{}, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeNotFound)
	})

	t.Run("enabled without restrictions", func(t *testing.T) {
		w := serveSwagger(SwaggerConfig{Enabled: true}, nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "docs", w.Body.String())
	})

	t.Run("allows exact IP", func(t *testing.T) {
		cfg := SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.5"}}
		assert.Equal(t, http.StatusOK, serveSwagger(cfg, nil, "10.0.0.5:4321").Code)
		assert.Equal(t, http.StatusForbidden, serveSwagger(cfg, nil, "10.0.0.6:4321").Code)
	})

	t.Run("allows CIDR", func(t *testing.T) {
		cfg := SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.1.0/24"}}
		assert.Equal(t, http.StatusOK, serveSwagger(cfg, nil, "192.168.1.77:80").Code)
		assert.Equal(t, http.StatusForbidden, serveSwagger(cfg, nil, "192.168.2.1:80").Code)
	})

	t.Run("invalid entries deny everyone", func(t *testing.T) {
		cfg := SwaggerConfig{Enabled: true, AllowedIPs: []string{"not-an-ip", "300.0.0.0/8"}}
		assert.Equal(t, http.StatusForbidden, serveSwagger(cfg, nil, "10.0.0.1:80").Code)
	})

	t.Run("runs JWT middleware when required", func(t *testing.T) {
		deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
		allow := func(c *gin.Context) {}

		cfg := SwaggerConfig{Enabled: true, RequireAuth: true}
		assert.Equal(t, http.StatusUnauthorized, serveSwagger(cfg, deny, "").Code)
		assert.Equal(t, http.StatusOK, serveSwagger(cfg, allow, "").Code)
	})
}

func TestIsIPAllowed(t *testing.T) {
	prefixes := parseAllowedIPs([]string{"127.0.0.1", "::1", "10.0.0.0/8"})

	assert.True(t, isIPAllowed("127.0.0.1", prefixes))
	assert.True(t, isIPAllowed("::ffff:127.0.0.1", prefixes))
	assert.True(t, isIPAllowed("::1", prefixes))
	assert.True(t, isIPAllowed("10.20.30.40", prefixes))
	assert.False(t, isIPAllowed("11.0.0.1", prefixes))
	assert.False(t, isIPAllowed("", prefixes))
}
