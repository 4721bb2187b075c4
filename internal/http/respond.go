package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type apiError struct {
	Error string `json:"error"`
}

// mutationResponse is the envelope for create/update/delete results. The
// warning carries a persistence failure notice when the mutation applied
// in memory but could not be written through.
type mutationResponse struct {
	Transaction *core.Transaction `json:"transaction,omitempty"`
	Warning     string            `json:"warning,omitempty"`
}

const persistWarning = "change applied but could not be saved to storage; it will be retried on the next change"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.ForComponent(applog.ComponentHTTP).Error("Failed to encode response",
			applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}
