package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/santosa/bandarlab/internal/analysis"
	"github.com/santosa/bandarlab/pkg/logger"
)

// BacktestHandler handles backtest API endpoints
type BacktestHandler struct {
	service *analysis.Service
	logger  *logger.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(service *analysis.Service, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{
		service: service,
		logger:  log,
	}
}

// BacktestRequest is the POST body for a simulation run
type BacktestRequest struct {
	Symbol         string  `json:"symbol"`
	From           string  `json:"from"` // YYYY-MM-DD
	To             string  `json:"to"`   // YYYY-MM-DD
	InitialCapital float64 `json:"initial_capital"`
}

// Run executes a historical simulation
// POST /api/backtest
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	to := time.Now()
	if req.To != "" {
		parsed, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'to' date format (expected YYYY-MM-DD)")
			return
		}
		to = parsed
	}

	from := to.AddDate(-1, 0, 0)
	if req.From != "" {
		parsed, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'from' date format (expected YYYY-MM-DD)")
			return
		}
		from = parsed
	}

	if !from.Before(to) {
		respondError(w, http.StatusBadRequest, "'from' must be before 'to'")
		return
	}

	result, err := h.service.Backtest(r.Context(), analysis.BacktestRequest{
		Symbol:         symbol,
		From:           from,
		To:             to,
		InitialCapital: req.InitialCapital,
	})
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": symbol,
		}).Error("Failed to run backtest")
		respondError(w, http.StatusBadGateway, "Failed to run backtest")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}
