package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func authTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(Middleware())
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/api/thing", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"thing": true})
	})
	return e
}

func get(e *echo.Echo, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_BasicAuth(t *testing.T) {
	t.Setenv("AUTH_TYPE", "")
	t.Setenv("API_USER", "admin")
	t.Setenv("API_PASS", "secret")
	e := authTestServer(t)

	if rec := get(e, "/api/thing", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no credentials: status = %d, want 401", rec.Code)
	}

	bad := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:nope"))
	if rec := get(e, "/api/thing", bad); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", rec.Code)
	}

	good := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:secret"))
	if rec := get(e, "/api/thing", good); rec.Code != http.StatusOK {
		t.Errorf("valid credentials: status = %d, want 200", rec.Code)
	}
}

func TestMiddleware_KeyAuth(t *testing.T) {
	t.Setenv("AUTH_TYPE", "key")
	t.Setenv("API_KEY", "k-123")
	e := authTestServer(t)

	if rec := get(e, "/api/thing", "Bearer wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", rec.Code)
	}
	if rec := get(e, "/api/thing", "Bearer k-123"); rec.Code != http.StatusOK {
		t.Errorf("valid key: status = %d, want 200", rec.Code)
	}
}

func TestMiddleware_SkipsPublicPaths(t *testing.T) {
	t.Setenv("AUTH_TYPE", "")
	t.Setenv("API_USER", "admin")
	t.Setenv("API_PASS", "secret")
	e := authTestServer(t)

	if rec := get(e, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health without credentials: status = %d, want 200", rec.Code)
	}
}
