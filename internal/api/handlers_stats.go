package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/cadboq/internal/rates"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"processing":  s.proc.Stats().Snapshot(),
	})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"currency": s.cfg.CurrencySymbol,
		"rates":    rates.Entries(s.proc.Rates()),
	})
}
