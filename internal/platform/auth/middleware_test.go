package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSigningKey = []byte("test-secret-key-for-unit-tests")

func signTestToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(testSigningKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTMiddleware(JWTConfig{SigningKey: testSigningKey})
	err := mw(func(c echo.Context) error { return nil })(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_InvalidFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTMiddleware(JWTConfig{SigningKey: testSigningKey})
	err := mw(func(c echo.Context) error { return nil })(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	e := echo.New()

	tokenStr := signTestToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{"nurse"},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser string
	var gotRoles []string
	mw := JWTMiddleware(JWTConfig{SigningKey: testSigningKey})
	err := mw(func(c echo.Context) error {
		gotUser = UserIDFromContext(c.Request().Context())
		gotRoles = RolesFromContext(c.Request().Context())
		return nil
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUser != "user-1" {
		t.Errorf("expected user-1, got %s", gotUser)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "nurse" {
		t.Errorf("expected [nurse], got %v", gotRoles)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()

	tokenStr := signTestToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTMiddleware(JWTConfig{SigningKey: testSigningKey})
	err := mw(func(c echo.Context) error { return nil })(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %v", err)
	}
}

func TestDevAuthMiddleware_Defaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotRoles []string
	err := DevAuthMiddleware()(func(c echo.Context) error {
		gotRoles = RolesFromContext(c.Request().Context())
		return nil
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "admin" {
		t.Errorf("expected dev default [admin], got %v", gotRoles)
	}
}

func TestPrimaryRole(t *testing.T) {
	cases := []struct {
		roles []string
		want  string
	}{
		{[]string{"nurse", "admin"}, "admin"},
		{[]string{"nurse", "physician"}, "physician"},
		{[]string{"nurse"}, "nurse"},
		{[]string{"registrar"}, "registrar"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := PrimaryRole(tc.roles); got != tc.want {
			t.Errorf("PrimaryRole(%v) = %q, want %q", tc.roles, got, tc.want)
		}
	}
}
