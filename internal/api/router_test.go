package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/santosa/bandarlab/internal/analysis"
	"github.com/santosa/bandarlab/internal/api/handlers"
	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/config"
	"github.com/santosa/bandarlab/pkg/logger"
	"github.com/santosa/bandarlab/pkg/redis"
)

type stubSource struct {
	priceErr error
}

func (s *stubSource) GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) (contracts.Series, error) {
	if s.priceErr != nil {
		return nil, s.priceErr
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(contracts.Series, 30)
	for i := range series {
		series[i] = contracts.Bar{
			Date:   base.AddDate(0, 0, i),
			Open:   2500,
			High:   2510,
			Low:    2490,
			Close:  2500,
			Volume: 1_000_000,
		}
	}
	return series, nil
}

func (s *stubSource) GetBrokerSummary(ctx context.Context, symbol string, from, to time.Time) ([]contracts.BrokerFlow, error) {
	return nil, errors.New("no broker data")
}

func (s *stubSource) GetFundamentals(ctx context.Context, symbol string) (contracts.FundamentalMetrics, error) {
	return contracts.FundamentalMetrics{}, errors.New("no fundamentals")
}

func testRouter(t *testing.T, source *stubSource) http.Handler {
	t.Helper()

	log := logger.NewNop()
	service := analysis.NewService(source, nil, 0, log)

	client, err := redis.New(&config.Config{})
	if err != nil {
		t.Fatal(err)
	}

	return NewRouter(RouterConfig{
		Analysis:  handlers.NewAnalysisHandler(service, log),
		Backtest:  handlers.NewBacktestHandler(service, log),
		Limiter:   redis.NewRateLimiter(client, "test"),
		RateLimit: 100,
		Logger:    log,
	})
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(t, &stubSource{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["service"] != "bandarlab-api" {
		t.Errorf("body = %v", body)
	}
}

func TestGetFullAnalysis(t *testing.T) {
	router := testRouter(t, &stubSource{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/analysis/bbca", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool            `json:"success"`
		Data    analysis.Report `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
	if body.Data.Symbol != "BBCA" {
		t.Errorf("symbol = %q, want BBCA (uppercased)", body.Data.Symbol)
	}
	if body.Data.LastPrice != 2500 {
		t.Errorf("last price = %v, want 2500", body.Data.LastPrice)
	}
}

func TestGetFullAnalysisUpstreamFailure(t *testing.T) {
	router := testRouter(t, &stubSource{priceErr: errors.New("upstream down")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/analysis/BBCA", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestBacktestValidation(t *testing.T) {
	router := testRouter(t, &stubSource{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing symbol", `{"from":"2024-01-01","to":"2024-06-01"}`},
		{"bad date", `{"symbol":"BBCA","from":"01/01/2024"}`},
		{"inverted range", `{"symbol":"BBCA","from":"2024-06-01","to":"2024-01-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/backtest", strings.NewReader(tt.body))
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestBacktestRun(t *testing.T) {
	router := testRouter(t, &stubSource{})

	rec := httptest.NewRecorder()
	body := `{"symbol":"BBCA","from":"2024-01-01","to":"2024-03-01","initial_capital":5000000}`
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/backtest", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			InitialCapital float64 `json:"initial_capital"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data.InitialCapital != 5000000 {
		t.Errorf("resp = %+v, want success with the requested capital", resp)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	if got := clientIP(req); got != "10.0.0.7" {
		t.Errorf("clientIP() = %q, want 10.0.0.7", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Errorf("clientIP() = %q, want first forwarded address", got)
	}
}
