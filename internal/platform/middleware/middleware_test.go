package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/platform/auth"
)

func TestLogger_RecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/visits", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Logger(logger)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"path":"/api/visits"`) {
		t.Errorf("expected path in log output, got %s", out)
	}
	if !strings.Contains(out, `"method":"GET"`) {
		t.Errorf("expected method in log output, got %s", out)
	}
}

func TestLogger_AttributesActorAndVisit(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/visits/7f1c/complete", nil)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, "user-1")
	ctx = context.WithValue(ctx, auth.UserRolesKey, []string{"nurse"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req.WithContext(ctx), rec)
	c.SetParamNames("id")
	c.SetParamValues("7f1c")

	err := Logger(logger)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"user_id":"user-1"`, `"role":"nurse"`, `"visit_id":"7f1c"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in log output, got %s", want, out)
		}
	}
}

func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = Logger(logger)(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad")
	})(c)

	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("expected error level log, got %s", buf.String())
	}
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Recovery(logger)(func(c echo.Context) error {
		panic("boom")
	})(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic log, got %s", buf.String())
	}
}

func TestRequestTimeout_Expires(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequestTimeout(10 * time.Millisecond)(func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
		case <-time.After(time.Second):
		}
		return nil
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"retryable":true`) {
		t.Errorf("expected retryable marker, got %s", rec.Body.String())
	}
}

func TestRequestTimeout_CompletesInTime(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequestTimeout(time.Second)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
