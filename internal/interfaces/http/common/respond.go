package common

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/surveyclub/survey-services/api/internal/apperr"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("failed to encode JSON response: %v", err)
	}
}

// WriteError maps an application error onto its HTTP status and writes the
// client-facing message. Storage and internal errors get logged; their
// details never reach the client.
func WriteError(logger *log.Logger, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	default:
		if logger != nil {
			logger.Printf("request failed: %v", err)
		}
	}
	WriteJSON(logger, w, status, map[string]string{"error": apperr.MessageOf(err)})
}
