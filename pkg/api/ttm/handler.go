// Package ttm exposes the TTM calculator over HTTP. Handlers are thin:
// decode, call the engine, encode. The engine itself never touches the
// network.
package ttm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"fact_resolution/pkg/core/facts"
	"fact_resolution/pkg/core/report"
	"fact_resolution/pkg/core/ttm"
)

// DefaultTrendPeriods is used when a trend request omits the row count.
const DefaultTrendPeriods = 8

type CalculateRequest struct {
	Facts []facts.Fact `json:"facts"`
	AsOf  string       `json:"as_of,omitempty"`
}

type TrendRequest struct {
	Facts   []facts.Fact `json:"facts"`
	Periods int          `json:"periods,omitempty"`
}

type TrendReportRequest struct {
	Facts   []facts.Fact `json:"facts"`
	Periods int          `json:"periods,omitempty"`
	Concept string       `json:"concept,omitempty"`
	Label   string       `json:"label,omitempty"`
	Format  string       `json:"format,omitempty"` // "markdown" (default) or "html"
}

type TrendResponse struct {
	Rows []ttm.TrendRow `json:"rows"`
}

type TrendReportResponse struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

// HandleCalculate computes a single TTM metric from a posted fact list.
func HandleCalculate(w http.ResponseWriter, r *http.Request) {
	if !prepare(w, r) {
		return
	}

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fmt.Printf("[TTM] Calculate: %d facts, as_of=%q\n", len(req.Facts), req.AsOf)

	metric, err := ttm.NewCalculator(req.Facts).CalculateTTM(req.AsOf)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, metric)
}

// HandleTrend computes a rolling TTM trend series.
func HandleTrend(w http.ResponseWriter, r *http.Request) {
	if !prepare(w, r) {
		return
	}

	var req TrendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Periods == 0 {
		req.Periods = DefaultTrendPeriods
	}
	fmt.Printf("[TTM] Trend: %d facts, periods=%d\n", len(req.Facts), req.Periods)

	rows, err := ttm.NewCalculator(req.Facts).CalculateTTMTrend(req.Periods)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, TrendResponse{Rows: rows})
}

// HandleTrendReport renders a trend series as Markdown or HTML.
func HandleTrendReport(w http.ResponseWriter, r *http.Request) {
	if !prepare(w, r) {
		return
	}

	var req TrendReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Periods == 0 {
		req.Periods = DefaultTrendPeriods
	}

	rows, err := ttm.NewCalculator(req.Facts).CalculateTTMTrend(req.Periods)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	markdown := report.BuildTrendMarkdown(req.Concept, req.Label, rows)
	if !report.ValidateMarkdown(markdown) {
		http.Error(w, "generated report failed markdown validation", http.StatusInternalServerError)
		return
	}
	resp := TrendReportResponse{Format: "markdown", Content: markdown}
	if req.Format == "html" {
		html, err := report.RenderHTML(markdown)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp = TrendReportResponse{Format: "html", Content: html}
	}
	writeJSON(w, resp)
}

// prepare applies CORS headers and method checks shared by all handlers.
func prepare(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return false
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// writeEngineError maps engine errors onto HTTP status codes. Too few
// quarters is a data-quality condition (422), everything else from the
// calculator is a bad request.
func writeEngineError(w http.ResponseWriter, err error) {
	var insufficient *ttm.InsufficientDataError
	if errors.As(err, &insufficient) {
		http.Error(w, insufficient.Error(), http.StatusUnprocessableEntity)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("[TTM] Failed to encode response: %v\n", err)
	}
}
