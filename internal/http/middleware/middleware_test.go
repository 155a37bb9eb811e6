package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"devhub/internal/http/dto"
	"devhub/internal/http/resp"
)

const testSecret = "test-secret"

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeySubject))
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(*gin.Context) { panic("boom") })
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	t.Run("disabled without secret", func(t *testing.T) {
		rec := get(newEngine(JWTAuth("")), "/ok", "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := get(newEngine(JWTAuth(testSecret)), "/ok", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, resp.CodeUnauthorized, body.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(testSecret, "ci-bot", time.Minute)
		require.NoError(t, err)

		rec := get(newEngine(JWTAuth(testSecret)), "/ok", token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ci-bot", rec.Body.String())
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateToken("other-secret", "ci-bot", time.Minute)
		require.NoError(t, err)

		rec := get(newEngine(JWTAuth(testSecret)), "/ok", token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateToken(testSecret, "ci-bot", -time.Minute)
		require.NoError(t, err)

		rec := get(newEngine(JWTAuth(testSecret)), "/ok", token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Issuer: "someone-else", Subject: "x"}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		rec := get(newEngine(JWTAuth(testSecret)), "/ok", token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newEngine(ZapLogger(zap.New(core)))

	get(r, "/ok?x=1", "")
	get(r, "/health", "")
	get(r, "/missing", "")

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "/ok?x=1", entries[0].ContextMap()["path"])
	require.Equal(t, zapcore.DebugLevel, entries[1].Level)
	require.Equal(t, zapcore.WarnLevel, entries[2].Level)
}

func TestZapRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := newEngine(ZapRecovery(zap.New(core)))

	rec := get(r, "/boom", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, resp.CodeInternalError, body.Code)
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
