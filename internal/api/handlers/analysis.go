package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/santosa/bandarlab/internal/analysis"
	"github.com/santosa/bandarlab/pkg/logger"
)

// AnalysisHandler handles analysis API endpoints
type AnalysisHandler struct {
	service *analysis.Service
	logger  *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *analysis.Service, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  log,
	}
}

// GetFullAnalysis returns the complete report for a symbol
// GET /api/analysis/{symbol}
func (h *AnalysisHandler) GetFullAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolFromRequest(w, r)
	if !ok {
		return
	}

	report, err := h.service.Analyze(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": symbol,
		}).Error("Failed to run analysis")
		respondError(w, http.StatusBadGateway, "Failed to analyze symbol")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    report,
	})
}

// GetTechnical returns indicators and technical signals only
// GET /api/analysis/{symbol}/technical
func (h *AnalysisHandler) GetTechnical(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Technical(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": symbol,
		}).Error("Failed to run technical analysis")
		respondError(w, http.StatusBadGateway, "Failed to analyze symbol")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    summary,
	})
}

// GetFundamental returns the scored financial ratios
// GET /api/analysis/{symbol}/fundamental
func (h *AnalysisHandler) GetFundamental(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Fundamentals(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": symbol,
		}).Error("Failed to score fundamentals")
		respondError(w, http.StatusBadGateway, "Failed to retrieve fundamentals")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    summary,
	})
}

// GetBandarmology returns the broker-flow analysis
// GET /api/analysis/{symbol}/bandarmology
func (h *AnalysisHandler) GetBandarmology(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Bandarmology(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": symbol,
		}).Error("Failed to analyze broker flows")
		respondError(w, http.StatusBadGateway, "Failed to retrieve broker flows")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    summary,
	})
}

// GetPrediction returns the probabilistic forecast
// GET /api/analysis/{symbol}/prediction
func (h *AnalysisHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolFromRequest(w, r)
	if !ok {
		return
	}

	prediction, err := h.service.Predict(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": symbol,
		}).Error("Failed to run prediction")
		respondError(w, http.StatusBadGateway, "Failed to predict symbol")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    prediction,
	})
}

// symbolFromRequest extracts and normalizes the symbol path variable,
// writing a 400 when it is missing.
func symbolFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["symbol"]))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return "", false
	}
	return symbol, true
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
