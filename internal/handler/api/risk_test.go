package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	xlogger "github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/labstack/echo/v4"
)

type noopMetrics struct{}

func (noopMetrics) RecordScan(string)               {}
func (noopMetrics) RecordOpportunity(string)        {}
func (noopMetrics) RecordError(string)              {}
func (noopMetrics) RecordLastScore(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)   {}
func (noopMetrics) RecordSimulation(int)            {}

func newRiskEcho(t *testing.T) *echo.Echo {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	e := echo.New()
	NewRiskHandler(log, noopMetrics{}).RegisterRoutes(e)
	return e
}

const validSimBody = `{
	"p_win": 0.45, "r_win": 2.5, "risk_pct": 0.005,
	"trades_per_week": 10, "weeks": 52,
	"cost_per_trade_usd": 1, "slippage_bps": 10,
	"starting_capital": 10000, "num_simulations": 200, "seed": 7
}`

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMonteCarloEndpoint(t *testing.T) {
	e := newRiskEcho(t)
	rec := postJSON(e, "/api/v1/risk/montecarlo", validSimBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Status int `json:"status"`
		Data   struct {
			Summary *struct {
				MeanFinalEquity float64 `json:"mean_final_equity"`
				SharpeRatio     float64 `json:"sharpe_ratio"`
			} `json:"summary"`
			Risk struct {
				WinRate float64 `json:"win_rate"`
			} `json:"risk"`
			SamplePaths [][]float64 `json:"sample_paths"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Summary == nil || envelope.Data.Summary.MeanFinalEquity <= 0 {
		t.Fatalf("expected summary stats, got %s", rec.Body.String())
	}
	if envelope.Data.Risk.WinRate <= 0 || envelope.Data.Risk.WinRate >= 1 {
		t.Fatalf("win rate should be in (0,1), got %v", envelope.Data.Risk.WinRate)
	}
	if len(envelope.Data.SamplePaths) != 0 {
		t.Fatalf("paths should be omitted unless requested")
	}
}

func TestMonteCarloIncludePaths(t *testing.T) {
	e := newRiskEcho(t)
	body := strings.Replace(validSimBody, `"seed": 7`, `"seed": 7, "include_paths": true, "num_sample_paths": 25`, 1)
	rec := postJSON(e, "/api/v1/risk/montecarlo", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data struct {
			SamplePaths [][]float64 `json:"sample_paths"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.SamplePaths) != 25 {
		t.Fatalf("expected 25 sample paths, got %d", len(envelope.Data.SamplePaths))
	}
	// 520 trades plus the starting point
	if len(envelope.Data.SamplePaths[0]) != 521 {
		t.Fatalf("expected 521 equity points, got %d", len(envelope.Data.SamplePaths[0]))
	}
}

func TestMonteCarloCertainWinStrategy(t *testing.T) {
	e := newRiskEcho(t)
	body := strings.Replace(validSimBody, `"p_win": 0.45`, `"p_win": 1.0`, 1)
	rec := postJSON(e, "/api/v1/risk/montecarlo", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Status int `json:"status"`
		Data   struct {
			Risk struct {
				ProfitFactor float64 `json:"profit_factor"`
				WinRate      float64 `json:"win_rate"`
			} `json:"risk"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusOK {
		t.Fatalf("expected embedded 200, got %d: %s", envelope.Status, rec.Body.String())
	}
	if envelope.Data.Risk.WinRate != 1 {
		t.Fatalf("expected win rate 1, got %v", envelope.Data.Risk.WinRate)
	}
	if pf := envelope.Data.Risk.ProfitFactor; math.IsInf(pf, 0) || pf <= 0 {
		t.Fatalf("profit factor must be finite and positive, got %v", pf)
	}
}

func TestMonteCarloRejectsInvalidParams(t *testing.T) {
	e := newRiskEcho(t)
	body := strings.Replace(validSimBody, `"p_win": 0.45`, `"p_win": 1.5`, 1)
	rec := postJSON(e, "/api/v1/risk/montecarlo", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("envelope responses always carry transport 200, got %d", rec.Code)
	}
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Fatalf("expected embedded 400 status, got %d: %s", envelope.Status, rec.Body.String())
	}
}
