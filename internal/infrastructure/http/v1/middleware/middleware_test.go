package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/apperror"
	appctx "rms/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokens map[string]*appctx.UserContext

func (t tokens) ValidateToken(token string) (*appctx.UserContext, error) {
	u, ok := t[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return u, nil
}

func serve(r *gin.Engine, path string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(Trace(), ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperror.NewInvalidStatus("Material Request MR-2026-00001 is stopped"))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("dial tcp: connection refused"))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w, body := serve(r, "/app", nil)
	assert.Equal(t, http.StatusExpectationFailed, w.Code)
	assert.Equal(t, apperror.CodeInvalidStatus, body["code"])
	assert.Equal(t, "Material Request MR-2026-00001 is stopped", body["message"])

	w, body = serve(r, "/plain", map[string]string{HeaderRequestID: "req-1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.Equal(t, "req-1", body["details"].(map[string]any)["request_id"])
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))

	w, _ = serve(r, "/ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("nil map")
	})

	w, body := serve(r, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "nil map")
}

func TestAuthAndRequireRole(t *testing.T) {
	validator := tokens{
		"clerk":   {UserID: "clerk@example.com", Roles: []string{"Stock User"}},
		"planner": {UserID: "planner@example.com", Roles: []string{"Manufacturing User"}},
		"admin":   {UserID: "Administrator", IsAdmin: true},
	}

	r := gin.New()
	r.Use(ErrorHandler())
	api := r.Group("/api", Auth(validator))
	api.GET("/stock", RequireRole("Stock User", "Stock Manager"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": appctx.GetUserID(c.Request.Context())})
	})

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "missing header", status: http.StatusUnauthorized, code: apperror.CodeUnauthorized},
		{name: "not bearer", header: "Basic clerk", status: http.StatusUnauthorized, code: apperror.CodeUnauthorized},
		{name: "unknown token", header: "Bearer nobody", status: http.StatusUnauthorized, code: apperror.CodeUnauthorized},
		{name: "missing role", header: "Bearer planner", status: http.StatusForbidden, code: apperror.CodeForbidden},
		{name: "role", header: "Bearer clerk", status: http.StatusOK},
		{name: "admin", header: "bearer admin", status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := map[string]string{}
			if tt.header != "" {
				h["Authorization"] = tt.header
			}
			w, body := serve(r, "/api/stock", h)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", RequireRole("Stock User"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w, _ := serve(r, "/x", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
