package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/serisow/pdfclerk/pipeline"
)

// OutcomeHandler exposes the in-memory per-file processing outcomes for
// operator inspection.
type OutcomeHandler struct{}

func NewOutcomeHandler() *OutcomeHandler {
	return &OutcomeHandler{}
}

func (h *OutcomeHandler) ListOutcomes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(pipeline.ListOutcomes()); err != nil {
		http.Error(w, "Failed to encode outcomes", http.StatusInternalServerError)
	}
}

func (h *OutcomeHandler) GetOutcome(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	outcome, exists := pipeline.GetOutcome(vars["id"])
	if !exists {
		http.Error(w, "Outcome not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(outcome); err != nil {
		http.Error(w, "Failed to encode outcome", http.StatusInternalServerError)
	}
}

func (h *OutcomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
