package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func getJSON(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	NewHealthHandler(nil).RegisterRoutes(e)

	rec := getJSON(e, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReadinessReportsDependencies(t *testing.T) {
	e := echo.New()
	NewHealthHandler(map[string]HealthCheck{
		"clickhouse": func(context.Context) error { return nil },
		"cache":      func(context.Context) error { return errors.New("connection refused") },
	}).RegisterRoutes(e)

	rec := getJSON(e, "/readyz")

	var envelope struct {
		Status int               `json:"status"`
		Data   map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected embedded 503, got %d", envelope.Status)
	}
	if envelope.Data["clickhouse"] != "ok" {
		t.Fatalf("healthy dependency should report ok")
	}
	if envelope.Data["cache"] != "connection refused" {
		t.Fatalf("failing dependency should report its error, got %q", envelope.Data["cache"])
	}
}

func TestReadinessAllHealthy(t *testing.T) {
	e := echo.New()
	NewHealthHandler(map[string]HealthCheck{
		"clickhouse": func(context.Context) error { return nil },
	}).RegisterRoutes(e)

	rec := getJSON(e, "/readyz")
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusOK {
		t.Fatalf("expected embedded 200, got %d", envelope.Status)
	}
}
