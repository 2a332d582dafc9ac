// Package periods exposes statement period selection over HTTP.
package periods

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fact_resolution/pkg/core/facts"
	"fact_resolution/pkg/core/periods"
)

// DefaultMaxPeriods is used when a request omits max_periods. Two or
// three comparison columns is what statement renderers typically show.
const DefaultMaxPeriods = 3

type SelectRequest struct {
	Catalog       []facts.ReportingPeriod `json:"catalog"`
	StatementType string                  `json:"statement_type"`
	DocumentDate  string                  `json:"document_date,omitempty"`
	Entity        facts.EntityInfo        `json:"entity,omitempty"`
	MaxPeriods    int                     `json:"max_periods,omitempty"`
}

type SelectResponse struct {
	Periods []periods.Selected `json:"periods"`
}

// HandleSelect returns the period keys to display for a statement type.
func HandleSelect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.MaxPeriods == 0 {
		req.MaxPeriods = DefaultMaxPeriods
	}
	fmt.Printf("[PERIODS] Select: %s, %d catalog entries, doc_date=%q\n",
		req.StatementType, len(req.Catalog), req.DocumentDate)

	selected, err := periods.Select(req.Catalog, req.StatementType, req.DocumentDate, req.Entity, req.MaxPeriods)
	if err != nil {
		// Selection only errors on programmer mistakes (empty statement
		// type, bad max_periods); data problems degrade silently.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SelectResponse{Periods: selected}); err != nil {
		fmt.Printf("[PERIODS] Failed to encode response: %v\n", err)
	}
}
